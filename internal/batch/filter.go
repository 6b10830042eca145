package batch

import (
	"go.uber.org/zap"
)

// Filter drops items before any of them is fetched.
type Filter interface {
	Name() string
	Apply(items []Item) ([]Item, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// RunFilters applies filters in order and logs what each one dropped.
func RunFilters(items []Item, filters []Filter, logger *zap.Logger) []Item {
	for _, filter := range filters {
		next, step := filter.Apply(items)
		logger.Info("filter step",
			zap.String("name", filter.Name()),
			zap.Int("initial", step.Initial),
			zap.Int("dropped", step.Dropped),
			zap.Int("left", step.Left),
		)
		items = next
	}
	return items
}

type historyFilter struct {
	history *History
	logger  *zap.Logger
}

// NewHistoryFilter drops items that already have a score in history.
func NewHistoryFilter(history *History, logger *zap.Logger) Filter {
	return &historyFilter{history: history, logger: logger}
}

func (f *historyFilter) Name() string { return "history" }

func (f *historyFilter) Apply(items []Item) ([]Item, Step) {
	return keep(items, func(item Item) bool {
		if f.history == nil || !f.history.Has(item.Key()) {
			return true
		}
		f.logger.Info("already processed, skipping", zap.Int("row", item.Row), zap.String("position", item.Position))
		return false
	})
}

type duplicatesFilter struct{}

// NewDuplicatesFilter keeps the first item for every position and resume pair.
func NewDuplicatesFilter() Filter {
	return duplicatesFilter{}
}

func (duplicatesFilter) Name() string { return "duplicates" }

func (duplicatesFilter) Apply(items []Item) ([]Item, Step) {
	seen := make(map[string]struct{}, len(items))
	return keep(items, func(item Item) bool {
		if _, ok := seen[item.Key()]; ok {
			return false
		}
		seen[item.Key()] = struct{}{}
		return true
	})
}

type unknownPositionFilter struct {
	manifest *Manifest
	logger   *zap.Logger
}

// NewUnknownPositionFilter drops items whose position has no job entry or
// that carry no resume reference.
func NewUnknownPositionFilter(manifest *Manifest, logger *zap.Logger) Filter {
	return &unknownPositionFilter{manifest: manifest, logger: logger}
}

func (f *unknownPositionFilter) Name() string { return "unknown_position" }

func (f *unknownPositionFilter) Apply(items []Item) ([]Item, Step) {
	return keep(items, func(item Item) bool {
		if item.ResumeURL == "" {
			f.logger.Warn("no resume reference", zap.Int("row", item.Row))
			return false
		}
		if _, ok := f.manifest.FindJob(item.Position); !ok {
			f.logger.Warn("no matching job found for position", zap.Int("row", item.Row), zap.String("position", item.Position))
			return false
		}
		return true
	})
}

func keep(items []Item, ok func(Item) bool) ([]Item, Step) {
	initial := len(items)
	left := make([]Item, 0, initial)
	for _, item := range items {
		if ok(item) {
			left = append(left, item)
		}
	}
	return left, Step{Initial: initial, Dropped: initial - len(left), Left: len(left)}
}
