package batch

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

// History remembers submissions that already received a score so reruns
// skip them.
type History struct {
	Items []*ProcessedItem `json:"items"`

	keys map[string]struct{}
}

type ProcessedItem struct {
	Key         string    `json:"key"`
	Position    string    `json:"position"`
	ResumeURL   string    `json:"resume_url"`
	Score       string    `json:"score"`
	ProcessedAt time.Time `json:"processed_at"`
}

// LoadHistory reads a history file. A missing or empty file is an empty
// history.
func LoadHistory(path string) (*History, error) {
	history := &History{}
	if path == "" {
		return history, nil
	}

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return history, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return history, nil
	}

	if err := json.NewDecoder(file).Decode(history); err != nil {
		return nil, err
	}
	return history, nil
}

func (h *History) Has(key string) bool {
	h.index()
	_, ok := h.keys[key]
	return ok
}

func (h *History) Add(item Item, score string) {
	h.index()
	key := item.Key()
	if _, ok := h.keys[key]; ok {
		return
	}
	h.keys[key] = struct{}{}
	h.Items = append(h.Items, &ProcessedItem{
		Key:         key,
		Position:    item.Position,
		ResumeURL:   item.ResumeURL,
		Score:       score,
		ProcessedAt: time.Now().UTC(),
	})
}

func (h *History) Len() int {
	return len(h.Items)
}

func (h *History) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(h)
}

func (h *History) index() {
	if h.keys != nil {
		return
	}
	h.keys = make(map[string]struct{}, len(h.Items))
	for _, item := range h.Items {
		h.keys[item.Key] = struct{}{}
	}
}
