// Package state owns the single persisted record shared by the library,
// review and session modules. Modules reach it only through their
// adapter/out repositories.
package state

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"metis/internal/platform/date"
)

type Book struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	CoverURL string `json:"coverUrl"`
	Role     string `json:"role"`
}

type Goal struct {
	ID     string `json:"id"`
	BookID string `json:"bookId"`
	Level  int    `json:"level"`
	Text   string `json:"text"`
	Status string `json:"status"`
}

type Session struct {
	GoalID         string    `json:"goalId"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	UserPrediction string    `json:"userPrediction"`
	BrainDump      string    `json:"brainDump"`
	Prediction     string    `json:"prediction"`
	AIFeedback     string    `json:"aiFeedback"`
	Gap            string    `json:"gap"`
}

type ReviewItem struct {
	GoalID   string    `json:"goalId"`
	DueDate  date.Date `json:"dueDate"`
	Interval int       `json:"interval"`
}

// Document is the whole persisted record. A zero LastSessionDate means no
// session has been completed yet.
type Document struct {
	MainBook        *Book        `json:"mainBook"`
	SubBooks        []Book       `json:"subBooks"`
	Goals           []Goal       `json:"goals"`
	Sessions        []Session    `json:"sessions"`
	ReviewQueue     []ReviewItem `json:"reviewQueue"`
	LastSessionDate date.Date    `json:"lastSessionDate"`
	Streak          int          `json:"streak"`
}

func Empty() Document {
	return Document{}.normalized()
}

// Decode parses a persisted payload. Missing collections come back empty.
func Decode(payload []byte) (Document, error) {
	doc := Document{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Document{}, fmt.Errorf("decode state: %w", err)
	}
	return doc.normalized(), nil
}

func Encode(doc Document) ([]byte, error) {
	payload, err := json.MarshalIndent(doc.normalized(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return payload, nil
}

// Clone returns a copy that shares no mutable memory with d.
func (d Document) Clone() Document {
	out := d
	if d.MainBook != nil {
		book := *d.MainBook
		out.MainBook = &book
	}
	out.SubBooks = slices.Clone(d.SubBooks)
	out.Goals = slices.Clone(d.Goals)
	out.Sessions = slices.Clone(d.Sessions)
	out.ReviewQueue = slices.Clone(d.ReviewQueue)
	return out.normalized()
}

func (d Document) normalized() Document {
	if d.SubBooks == nil {
		d.SubBooks = []Book{}
	}
	if d.Goals == nil {
		d.Goals = []Goal{}
	}
	if d.Sessions == nil {
		d.Sessions = []Session{}
	}
	if d.ReviewQueue == nil {
		d.ReviewQueue = []ReviewItem{}
	}
	return d
}
