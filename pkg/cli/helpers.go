package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/tend/pkg/config"
	"github.com/harrisonrobin/tend/pkg/history"
	"github.com/harrisonrobin/tend/pkg/model"
	"github.com/harrisonrobin/tend/pkg/store"
)

func openStore() (*store.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("could not load config: %w", err)
	}
	st, err := store.Open(cfg.TasksPath)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}

func openHistory(cfg *config.Config) (*history.Storage, error) {
	return history.NewStorage(cfg.HistoryPath)
}

// resolveTask finds the single task whose ID starts with prefix.
func resolveTask(st *store.Store, prefix string) (model.Task, error) {
	tasks, err := st.FetchAll()
	if err != nil {
		return model.Task{}, err
	}
	var matches []model.Task
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return model.Task{}, fmt.Errorf("no task matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return model.Task{}, fmt.Errorf("%q matches %d tasks, use a longer prefix", prefix, len(matches))
	}
}

var whenLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseWhen parses a user-supplied date or date-time in local time.
func parseWhen(s string) (time.Time, error) {
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse %q (want YYYY-MM-DD or YYYY-MM-DD HH:MM)", s)
}

// shortID trims a uuid down to the prefix shown in listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
