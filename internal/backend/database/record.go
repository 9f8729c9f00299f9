package database

import (
	"net/url"
	"path"
)

// PartitionKey is the attribute name of the record id in the DynamoDB table
const PartitionKey = "Schedule_Partition"

// Record is the metadata row for one scheduled image
type Record struct {
	ID            string `json:"id" db:"id" dynamodbav:"Schedule_Partition"`
	ImageURL      string `json:"image_url" db:"image_url" dynamodbav:"image_url"`
	ObjectKey     string `json:"object_key,omitempty" db:"object_key" dynamodbav:"object_key,omitempty"`
	ScheduledTime string `json:"scheduled_time" db:"scheduled_time" dynamodbav:"scheduled_time"`
}

// NewRecord creates a record with a freshly generated id
func NewRecord(imageURL, objectKey, scheduledTime string) (*Record, error) {
	id, err := generateID()
	if err != nil {
		return nil, err
	}
	return &Record{
		ID:            id,
		ImageURL:      imageURL,
		ObjectKey:     objectKey,
		ScheduledTime: scheduledTime,
	}, nil
}

// Key returns the blob store key of the record. Records written before the
// key was persisted only carry the URL, for those the last path segment is used.
func (r *Record) Key() string {
	if r.ObjectKey != "" {
		return r.ObjectKey
	}
	if r.ImageURL == "" {
		return ""
	}
	if u, err := url.Parse(r.ImageURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(r.ImageURL)
}
