package models

import "strings"

// User is one employee record as served by the insight service.
// The UI never mutates it.
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	TimeGraph     string `json:"timeGraph"`
	ClustersGraph string `json:"clustersGraph"`
}

// Graph references a graph image of a user
type Graph struct {
	Kind string
	URL  string
}

// Graphs returns the graph references that are set, time graph first
func (u *User) Graphs() []Graph {
	if u == nil {
		return nil
	}
	var graphs []Graph
	if u.TimeGraph != "" {
		graphs = append(graphs, Graph{Kind: GraphTime, URL: u.TimeGraph})
	}
	if u.ClustersGraph != "" {
		graphs = append(graphs, Graph{Kind: GraphClusters, URL: u.ClustersGraph})
	}
	return graphs
}

// DisplayName returns the name, falling back to the id
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return u.ID
}
