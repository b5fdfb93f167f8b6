package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

// Status represents the lifecycle state of a scheduled post.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusPublished  Status = "published"
	StatusFailed     Status = "failed"
)

// ScheduledPost is a post held back until its publish time arrives.
type ScheduledPost struct {
	ID        uuid.UUID              `bson:"_id" json:"id"`
	UserID    string                 `bson:"user_id" json:"user_id"`
	Post      social.Post            `bson:"post" json:"post"`
	PublishAt time.Time              `bson:"publish_at" json:"publish_at"`
	Status    Status                 `bson:"status" json:"status"`
	Results   []social.PublishResult `bson:"results,omitempty" json:"results,omitempty"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time              `bson:"updated_at" json:"updated_at"`
}
