package api

import (
	"context"
	"fmt"
	"net/url"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/teamlens/internal/errors"
	"github.com/diogo/teamlens/internal/models"
)

// GetEmployee returns one user record, served from the cache while fresh
func (c *Client) GetEmployee(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}

	if user, ok := c.cache.Get(userID); ok {
		return user, nil
	}

	endpoint := fmt.Sprintf(models.PathUser, url.PathEscape(userID))
	body, err := c.doRequest(ctx, "get employee", fhttp.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	user, err := parseUser(body)
	if err != nil {
		return nil, err
	}

	c.cache.Put(*user)
	return user, nil
}

// ListEmployees returns all user records. Results also warm the cache.
func (c *Client) ListEmployees(ctx context.Context) ([]models.User, error) {
	body, err := c.doRequest(ctx, "list employees", fhttp.MethodGet, models.PathUsers, nil)
	if err != nil {
		return nil, err
	}

	users, err := parseUsers(body)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		c.cache.Put(u)
	}
	return users, nil
}

// InvalidateEmployee drops a cached record so the next GetEmployee refetches it
func (c *Client) InvalidateEmployee(userID string) {
	c.cache.Invalidate(userID)
}

// parseUser parses a single user object
func parseUser(body []byte) (*models.User, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("user response is not valid JSON", "")
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, apierrors.NewParseError("user response is not an object", "")
	}
	user, err := userFromResult(parsed)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// parseUsers parses a list of users, bare or wrapped in {"users": [...]}
func parseUsers(body []byte) ([]models.User, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("users response is not valid JSON", "")
	}

	list := gjson.ParseBytes(body)
	if list.IsObject() {
		list = list.Get(PathUsersWrapped)
	}
	if !list.IsArray() {
		return nil, apierrors.NewParseError("no user list found", PathUsersWrapped)
	}

	users := []models.User{}
	var parseErr error
	list.ForEach(func(_, value gjson.Result) bool {
		user, err := userFromResult(value)
		if err != nil {
			parseErr = err
			return false
		}
		users = append(users, user)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return users, nil
}

// userFromResult maps a gjson object to a User.
// Missing optional fields stay empty; the id is required.
func userFromResult(value gjson.Result) (models.User, error) {
	id := value.Get(PathUserID)
	if !id.Exists() || id.String() == "" {
		return models.User{}, apierrors.NewParseError("user without id", PathUserID)
	}
	return models.User{
		ID:            id.String(),
		Name:          value.Get(PathUserName).String(),
		Email:         value.Get(PathUserEmail).String(),
		TimeGraph:     value.Get(PathUserTimeGraph).String(),
		ClustersGraph: value.Get(PathUserClustersGraph).String(),
	}, nil
}
