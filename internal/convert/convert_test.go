package convert

import (
	"fmt"
	"time"
)

// level is an enumeration stored by name.
type level string

const (
	levelLow  level = "low"
	levelHigh level = "high"
)

func (l level) MarshalText() ([]byte, error) { return []byte(l), nil }

func (l *level) UnmarshalText(b []byte) error {
	switch v := level(b); v {
	case levelLow, levelHigh:
		*l = v
		return nil
	}
	return fmt.Errorf("unknown level %q", string(b))
}

type address struct {
	City string `db:"city"`
	Zip  int    `db:"zip"`
}

type member struct {
	ID       int64          `db:"id"`
	Name     string         `db:"name"`
	Age      int32          `db:"age"`
	Active   bool           `db:"active"`
	Nick     *string        `db:"nick"`
	Score    float64        `db:"score"`
	Level    level          `db:"level"`
	Tags     []string       `db:"tags"`
	Home     address        `db:"home"`
	Labels   map[string]int `db:"labels"`
	Joined   time.Time      `db:"joined"`
	Internal string         `db:"-"`
	secret   string
}

func (member) TableName() string { return "members" }

func (member) Fields() []string {
	return []string{"id", "name", "age", "active", "nick", "score", "level", "tags", "home", "labels", "joined"}
}

func strPtr(s string) *string { return &s }
