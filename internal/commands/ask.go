package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/teamlens/internal/config"
	"github.com/diogo/teamlens/internal/logger"
	"github.com/diogo/teamlens/internal/models"
	"github.com/diogo/teamlens/internal/render"
)

// Styles matching the TUI response panel
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	summaryStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorTextDim).
			BorderLeft(true).
			Foreground(colorTextDim).
			PaddingLeft(1).
			MarginLeft(1).
			Italic(true)
)

// writeClipboard is swapped in tests
var writeClipboard = clipboard.WriteAll

// askOptions are the flags of the ask command
type askOptions struct {
	output string
	file   string
	raw    bool
	copy   bool
}

// NewAskCmd creates the ask command
func NewAskCmd(deps *Dependencies) *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask <user> [question]",
		Short: "Ask one question about an employee",
		Long: `Ask one question about an employee and print the answer.

The question comes from the argument, from --file, or from stdin.
An empty question is sent as is.

Examples:
  teamlens ask u42 "What is she working on?"
  teamlens ask u42 -f question.md
  echo "Any blockers?" | teamlens ask u42
  teamlens ask u42 "Summarize last week" -o answer.md`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readQuestion(cmd.InOrStdin(), args[1:], opts.file)
			if err != nil {
				return err
			}
			return runAsk(cmd.Context(), deps, cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], question, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save the answer to a file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the question from a file")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print only the answer text, without decoration")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the answer to the clipboard")
	return cmd
}

// readQuestion picks the question from args, file or piped stdin, in that order
func readQuestion(stdin io.Reader, args []string, file string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}

	if stdin == nil {
		return "", nil
	}
	// Only read stdin when it is piped
	if f, ok := stdin.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", nil
		}
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// runAsk executes a single question and outputs the answer.
// Output is undecorated with --raw or when stdout is not a terminal.
func runAsk(ctx context.Context, deps *Dependencies, out, errOut io.Writer, userID, question string, opts askOptions) error {
	ctx = contextOrBackground(ctx)
	question = strings.TrimSpace(question)
	rawOutput := opts.raw || !isTTY(out)

	cfg := deps.loadConfig(errOut)
	log := newCLILogger(cfg, errOut)

	client, release, err := deps.client(cfg, log)
	if err != nil {
		return err
	}
	defer release()

	var spin *spinner
	if !rawOutput {
		spin = newSpinner(errOut, "Loading employee")
		spin.start()
	}

	user, err := client.GetEmployee(ctx, userID)
	if err != nil {
		if !rawOutput {
			spin.stopWithError()
		}
		fmt.Fprintln(errOut, formatErrorMessage(err, "Failed to load employee"))
		return fmt.Errorf("failed to load employee: %w", err)
	}
	if !rawOutput {
		spin.stopWithSuccess(user.DisplayName())
		spin = newSpinner(errOut, "Asking")
		spin.start()
	}

	recorder := newAskRecorder(deps, *user, log)
	recorder.question(question)

	startTime := time.Now()
	resp, err := client.GetChatResponse(ctx, user.ID, question)
	requestDuration := time.Since(startTime)

	if err != nil {
		if !rawOutput {
			spin.stopWithError()
		}
		fmt.Fprintln(errOut, formatErrorMessage(err, "Chat failed"))
		return fmt.Errorf("chat failed: %w", err)
	}
	if !rawOutput {
		spin.stopWithSuccess("Done")
	}
	recorder.response(*resp)

	log.Debug("chat answered", logger.Fields{"duration": requestDuration.Round(time.Millisecond).String()})

	if cfg.CopyToClipboard || opts.copy {
		if err := writeClipboard(resp.Completion); err != nil {
			fmt.Fprintln(errOut, lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			))
		} else if !rawOutput {
			fmt.Fprintln(errOut, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(resp.Completion), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !rawOutput {
			fmt.Fprintln(errOut, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Answer saved to %s", opts.output),
			))
		}
		return nil
	}

	if rawOutput {
		_, err := fmt.Fprint(out, resp.Completion)
		if err == nil && !strings.HasSuffix(resp.Completion, "\n") {
			_, err = fmt.Fprintln(out)
		}
		return err
	}

	printAnswer(out, cfg, *user, resp)
	return nil
}

// printAnswer renders the decorated answer: label, summary and markdown bubble
func printAnswer(out io.Writer, cfg config.Config, user models.User, resp *models.ChatResponse) {
	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(out, assistantLabelStyle.Render("✦ "+user.DisplayName()))

	if resp.Summary != "" {
		fmt.Fprintln(out, summaryStyle.Width(contentWidth).Render(resp.Summary))
	}

	rendered := render.Answer(resp.Completion, render.OptionsFromConfigWithWidth(cfg, contentWidth))
	fmt.Fprintln(out, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
}

// askRecorder appends the turn to the local history when it is available
type askRecorder struct {
	store interface {
		AddQuestion(id, question string) error
		AddResponse(id string, resp models.ChatResponse) error
	}
	convID string
	log    *logger.Logger
}

func newAskRecorder(deps *Dependencies, user models.User, log *logger.Logger) *askRecorder {
	r := &askRecorder{log: log}
	store, err := deps.store()
	if err != nil {
		log.Warn("history disabled", logger.Fields{"error": err.Error()})
		return r
	}
	conv, err := store.ConversationFor(user)
	if err != nil {
		log.Warn("history disabled", logger.Fields{"error": err.Error()})
		return r
	}
	r.store = store
	r.convID = conv.ID
	return r
}

func (r *askRecorder) question(q string) {
	if r.store == nil {
		return
	}
	if err := r.store.AddQuestion(r.convID, q); err != nil {
		r.log.Warn("failed to record question", logger.Fields{"error": err.Error()})
	}
}

func (r *askRecorder) response(resp models.ChatResponse) {
	if r.store == nil {
		return
	}
	if err := r.store.AddResponse(r.convID, resp); err != nil {
		r.log.Warn("failed to record response", logger.Fields{"error": err.Error()})
	}
}
