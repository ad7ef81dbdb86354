package docstore

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/shulehub/shule/core/audit"
)

const activityCollection = "activities"

// AuditRecorder keeps the admin activity feed in the activities collection.
type AuditRecorder struct {
	client *Client
}

var _ audit.Recorder = (*AuditRecorder)(nil)

func NewAuditRecorder(client *Client) *AuditRecorder {
	return &AuditRecorder{client: client}
}

type activityDoc struct {
	ID     string `json:"id"`
	Action string `json:"action"`

	ActorName  string      `json:"actor_name"`
	ActorEmail string      `json:"actor_email"`
	ActorImage null.String `json:"actor_image"`

	TargetID    string      `json:"target_id"`
	TargetName  string      `json:"target_name"`
	TargetEmail null.String `json:"target_email"`

	Timestamp string `json:"timestamp"`
}

func (r *AuditRecorder) Record(ctx context.Context, entry audit.Entry) error {
	doc := activityDoc{
		ID:          entry.ID,
		Action:      entry.Action,
		ActorName:   entry.PerformedBy.Name,
		ActorEmail:  entry.PerformedBy.Email,
		ActorImage:  entry.PerformedBy.Image,
		TargetID:    entry.Target.ID,
		TargetName:  entry.Target.Name,
		TargetEmail: entry.Target.Email,
		Timestamp:   entry.Timestamp.Format(timeLayout),
	}
	if entry.Timestamp.IsZero() {
		doc.Timestamp = ServerTimestamp
	}
	return r.client.Set(ctx, activityCollection+"/"+entry.ID, doc, false)
}

func (r *AuditRecorder) Recent(ctx context.Context, limit int) ([]audit.Entry, error) {
	var docs []activityDoc
	err := r.client.List(ctx, activityCollection, &docs,
		WithOrder("timestamp", true), WithLimit(limit))
	if err != nil {
		return nil, err
	}

	entries := make([]audit.Entry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, audit.Entry{
			ID:     doc.ID,
			Action: doc.Action,
			PerformedBy: audit.Actor{
				Name:  doc.ActorName,
				Email: doc.ActorEmail,
				Image: doc.ActorImage,
			},
			Target: audit.Target{
				ID:    doc.TargetID,
				Name:  doc.TargetName,
				Email: doc.TargetEmail,
			},
			Timestamp: parseTime(doc.Timestamp),
		})
	}
	return entries, nil
}
