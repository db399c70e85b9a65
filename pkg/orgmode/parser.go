package orgmode

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/harrisonrobin/tend/pkg/model"
)

// parseFile parses an Org-mode file and returns a slice of tasks.
func parseFile(filePath string) ([]model.Task, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

// ParseFiles parses multiple Org-mode files and returns a slice of tasks.
func ParseFiles(filePaths []string) ([]model.Task, error) {
	var allTasks []model.Task
	for _, filePath := range filePaths {
		tasks, err := parseFile(filePath)
		if err != nil {
			return nil, err
		}
		allTasks = append(allTasks, tasks...)
	}
	return allTasks, nil
}

var (
	todoRegex      = regexp.MustCompile(`^\* TODO\s*(?:\[#([A-Z])\])?\s*(.*?)(?:\s+(:(\w+(:\w+)*):))?\s*$`)
	doneRegex      = regexp.MustCompile(`^\* DONE\s*(?:\[#([A-Z])\])?\s*(.*?)(?:\s+(:(\w+(:\w+)*):))?\s*$`)
	deadlineRegex  = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2}\s+[A-Za-z]{3}\s+\d{2}:\d{2})>`)
	scheduledRegex = regexp.MustCompile(`SCHEDULED:\s+<(\d{4}-\d{2}-\d{2}\s+[A-Za-z]{3}\s+\d{2}:\d{2})>`)
)

const orgStampLayout = "2006-01-02 Mon 15:04"

// Parse reads Org-mode content and returns the TODO/DONE entries as
// tasks. DEADLINE stamps map to due dates, SCHEDULED stamps to scheduled
// times, and priority cookies [#A]/[#B] map to the high/medium tiers.
// Entries keep no Org ID; the store assigns IDs on import.
func Parse(r io.Reader) ([]model.Task, error) {
	scanner := bufio.NewScanner(r)
	var tasks []model.Task
	var currentTask *model.Task

	flush := func() {
		if currentTask != nil && currentTask.Title != "" {
			tasks = append(tasks, *currentTask)
		}
		currentTask = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		isTodoPrefix := strings.HasPrefix(line, "* TODO")
		isDonePrefix := strings.HasPrefix(line, "* DONE")
		if isTodoPrefix || isDonePrefix {
			flush()
			var matches []string
			currentTask = &model.Task{Completed: isDonePrefix}
			if isTodoPrefix {
				matches = todoRegex.FindStringSubmatch(line)
			} else {
				matches = doneRegex.FindStringSubmatch(line)
			}
			if len(matches) > 0 {
				currentTask.Priority = cookiePriority(matches[1])
				currentTask.Title = strings.TrimSpace(matches[2])
				if len(matches) > 3 && matches[3] != "" {
					tags := strings.Trim(matches[3], ":")
					currentTask.Tags = strings.Split(tags, ":")
				}
			}
		} else if currentTask != nil {
			if matches := deadlineRegex.FindStringSubmatch(line); len(matches) > 0 {
				if due, err := time.ParseInLocation(orgStampLayout, matches[1], time.Local); err == nil {
					currentTask.DueDate = &due
				}
			}
			if matches := scheduledRegex.FindStringSubmatch(line); len(matches) > 0 {
				if at, err := time.ParseInLocation(orgStampLayout, matches[1], time.Local); err == nil {
					currentTask.ScheduledTime = &at
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return tasks, nil
}

// cookiePriority maps an Org priority cookie onto a tier: A is high, B
// is medium, anything else (including absence) is none.
func cookiePriority(cookie string) model.Priority {
	switch cookie {
	case "A":
		return model.PriorityHigh
	case "B":
		return model.PriorityMedium
	default:
		return model.PriorityNone
	}
}

// FilterTasks filters a slice of tasks by a given filter string.
// Currently, it only supports filtering by a single tag.
func FilterTasks(tasks []model.Task, filter string) []model.Task {
	var filteredTasks []model.Task
	for _, task := range tasks {
		for _, tag := range task.Tags {
			if tag == filter {
				filteredTasks = append(filteredTasks, task)
				break
			}
		}
	}
	return filteredTasks
}
