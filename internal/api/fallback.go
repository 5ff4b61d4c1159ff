package api

import (
	"time"

	"github.com/bryan-buckman/rewind365/internal/model"
)

// FallbackChannels returns the example channels served when the backend is
// unreachable.
func FallbackChannels() []model.Channel {
	return []model.Channel{
		{ID: "1", Name: "General", TeamName: "Marketing Team", TeamID: "team1"},
		{ID: "2", Name: "Announcements", TeamName: "Marketing Team", TeamID: "team1"},
		{ID: "3", Name: "Development", TeamName: "Engineering Team", TeamID: "team2"},
		{ID: "4", Name: "Stand-ups", TeamName: "Engineering Team", TeamID: "team2"},
		{ID: "5", Name: "Design Review", TeamName: "Product Team", TeamID: "team3"},
	}
}

// FallbackFolders returns the example folders served when the backend is
// unreachable.
func FallbackFolders() []model.Folder {
	return []model.Folder{
		{ID: "inbox", Name: "Inbox"},
		{ID: "sent", Name: "Sent Items"},
		{ID: "important", Name: "Important"},
		{ID: "flagged", Name: "Flagged"},
		{ID: "project-alpha", Name: "Project Alpha", ParentFolderName: "Projects"},
		{ID: "project-beta", Name: "Project Beta", ParentFolderName: "Projects"},
	}
}

// FallbackDigest returns the example digest for the day of now. Item
// timestamps are spread over the hours before now.
func FallbackDigest(now time.Time) model.DailyDigest {
	return model.DailyDigest{
		Date: now.Format(model.DigestDateLayout),
		Items: []model.DigestItem{
			{
				ID:            "1",
				Title:         "Quarterly Review Meeting Scheduled",
				Summary:       "Sarah scheduled the Q4 review for next Friday at 2 PM. Please prepare your department reports.",
				Source:        model.SourceTeams,
				SourceDetails: "Marketing Team > General",
				Priority:      model.PriorityUrgent,
				Timestamp:     now.Add(-2 * time.Hour),
				URL:           "https://teams.microsoft.com/...",
			},
			{
				ID:            "2",
				Title:         "Action Required: Budget Approval",
				Summary:       "Finance needs approval for the marketing budget increase. Deadline is end of week.",
				Source:        model.SourceOutlook,
				SourceDetails: "Important",
				Priority:      model.PriorityAction,
				Timestamp:     now.Add(-4 * time.Hour),
			},
			{
				ID:            "3",
				Title:         "New Feature Deployed",
				Summary:       "The user authentication update went live. All testing passed successfully.",
				Source:        model.SourceTeams,
				SourceDetails: "Engineering Team > Development",
				Priority:      model.PriorityInfo,
				Timestamp:     now.Add(-6 * time.Hour),
			},
			{
				ID:            "4",
				Title:         "Client Feedback on Project Alpha",
				Summary:       "Positive feedback received from client. They want to discuss expansion opportunities.",
				Source:        model.SourceOutlook,
				SourceDetails: "Project Alpha",
				Priority:      model.PriorityAction,
				Timestamp:     now.Add(-8 * time.Hour),
			},
		},
		Summary: model.DigestSummary{
			TotalItems:  4,
			UrgentCount: 1,
			ActionCount: 2,
			InfoCount:   1,
		},
	}
}
