// Package model defines shared data structures.
package model

import "time"

// Channel is a Teams channel that can be monitored.
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TeamName string `json:"teamName"`
	TeamID   string `json:"teamId"`
}

// Folder is an Outlook mail folder that can be monitored.
type Folder struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ParentFolderName string `json:"parentFolderName,omitempty"`
}

// UserPreferences is the set of sources a user monitors. It is replaced
// wholesale on every save.
type UserPreferences struct {
	SelectedChannels []string `json:"selectedChannels"`
	SelectedFolders  []string `json:"selectedFolders"`
}

// Source identifies where a digest item came from.
type Source string

const (
	SourceTeams   Source = "teams"
	SourceOutlook Source = "outlook"
)

// Priority is the classification assigned by the digest service.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityAction Priority = "action"
	PriorityInfo   Priority = "info"
)

// DigestItem is a single summarized message or thread.
type DigestItem struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	Source        Source    `json:"source"`
	SourceDetails string    `json:"sourceDetails"`
	Priority      Priority  `json:"priority"`
	Timestamp     time.Time `json:"timestamp"`
	URL           string    `json:"url,omitempty"`
}

// DigestSummary holds per-priority counts as reported by the server.
type DigestSummary struct {
	TotalItems  int `json:"totalItems"`
	UrgentCount int `json:"urgentCount"`
	ActionCount int `json:"actionCount"`
	InfoCount   int `json:"infoCount"`
}

// DailyDigest is one day's digest. Date is formatted YYYY-MM-DD.
type DailyDigest struct {
	Date    string        `json:"date"`
	Items   []DigestItem  `json:"items"`
	Summary DigestSummary `json:"summary"`
}

// DigestDateLayout is the layout of DailyDigest.Date.
const DigestDateLayout = "2006-01-02"

// HostUser is the signed-in user reported by the host.
type HostUser struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// HostTeam is the team the tab is pinned in, if any.
type HostTeam struct {
	InternalID  string `json:"internalId"`
	DisplayName string `json:"displayName"`
}

// HostChannel is the channel the tab is pinned in, if any.
type HostChannel struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// HostContext is a read-only snapshot of the hosting client's context.
type HostContext struct {
	HostName string       `json:"hostName,omitempty"`
	Theme    string       `json:"theme"`
	User     *HostUser    `json:"user,omitempty"`
	Team     *HostTeam    `json:"team,omitempty"`
	Channel  *HostChannel `json:"channel,omitempty"`
}
