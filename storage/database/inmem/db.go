package inmemdb

import (
	"sort"
	"sync"
	"time"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/chat"
	"github.com/edumentor/edumentor/core/course"
	"github.com/edumentor/edumentor/core/mentorship"
	"github.com/edumentor/edumentor/core/progress"
	"github.com/edumentor/edumentor/core/user"
)

type (
	// DB is a process-local store; every table is keyed by document ID.
	DB struct {
		user     *userTable
		course   *courseTable
		session  *sessionTable
		message  *messageTable
		progress *progressTable
	}

	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}

	courseTable struct {
		mutex sync.RWMutex
		table map[string]*course.Course
	}

	sessionTable struct {
		mutex sync.RWMutex
		table map[string]*mentorship.Session
	}

	messageTable struct {
		mutex sync.RWMutex
		table map[string]*chat.Message
	}

	progressTable struct {
		mutex sync.RWMutex
		table map[string]*progress.Progress
	}
)

func Open() *DB {
	return &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		course:   &courseTable{table: make(map[string]*course.Course)},
		session:  &sessionTable{table: make(map[string]*mentorship.Session)},
		message:  &messageTable{table: make(map[string]*chat.Message)},
		progress: &progressTable{table: make(map[string]*progress.Progress)},
	}
}

// sortByOrdering stably sorts items following the given orderings.
// key maps an ordering field to a comparable value of an item; unknown fields are ignored.
func sortByOrdering[T any](items []T, ordering []core.DBOrdering, key func(item T, field string) interface{}) {
	if len(ordering) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, ord := range ordering {
			c := compare(key(items[i], ord.Field), key(items[j], ord.Field))
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func compare(a, b interface{}) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case int:
		bv, _ := b.(int)
		return av - bv
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	}
	return 0
}
