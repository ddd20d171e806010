// Package memory is an in-process data store with the same semantics as the
// Firestore repositories. It backs DATA_STORE=memory and the tests.
package memory

import (
	"sync"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
)

type collection string

const (
	usersCol          collection = "users"
	skillsCol         collection = "skills"
	swapsCol          collection = "swapRequests"
	ratingsCol        collection = "ratings"
	conversationsCol  collection = "conversations"
	messagesCol       collection = "messages"
	notificationsCol  collection = "notifications"
	flagsCol          collection = "flaggedContent"
	systemMessagesCol collection = "systemMessages"
)

// DB holds every collection behind one lock. Listeners registered with watch
// get an initial delivery and another one after each write to their
// collection, outside the data lock and one at a time. A listener must not
// write to the DB.
type DB struct {
	mu sync.RWMutex

	users          map[string]*entity.User
	skills         map[string]*entity.Skill
	swaps          map[string]*entity.SwapRequest
	ratings        map[string]*entity.Rating
	conversations  map[string]*entity.Conversation
	messages       map[string]*entity.Message
	notifications  map[string]*entity.Notification
	flags          map[string]*entity.FlaggedContent
	systemMessages map[string]*entity.SystemMessage

	notifyMu sync.Mutex
	watchMu  sync.Mutex
	nextID   int
	watchers map[collection]map[int]func()
}

func NewDB() *DB {
	return &DB{
		users:          make(map[string]*entity.User),
		skills:         make(map[string]*entity.Skill),
		swaps:          make(map[string]*entity.SwapRequest),
		ratings:        make(map[string]*entity.Rating),
		conversations:  make(map[string]*entity.Conversation),
		messages:       make(map[string]*entity.Message),
		notifications:  make(map[string]*entity.Notification),
		flags:          make(map[string]*entity.FlaggedContent),
		systemMessages: make(map[string]*entity.SystemMessage),
		watchers:       make(map[collection]map[int]func()),
	}
}

type Repositories = repository.Repositories

func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Skills:        NewSkillRepository(db),
		SwapRequests:  NewSwapRequestRepository(db),
		Ratings:       NewRatingRepository(db),
		Conversations: NewConversationRepository(db),
		Notifications: NewNotificationRepository(db),
		Moderation:    NewModerationRepository(db),
	}
}

func (db *DB) watch(col collection, deliver func()) repository.Unsubscribe {
	db.watchMu.Lock()
	id := db.nextID
	db.nextID++
	if db.watchers[col] == nil {
		db.watchers[col] = make(map[int]func())
	}
	db.watchers[col][id] = deliver
	db.watchMu.Unlock()

	db.notifyMu.Lock()
	deliver()
	db.notifyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			db.watchMu.Lock()
			delete(db.watchers[col], id)
			db.watchMu.Unlock()
		})
	}
}

func (db *DB) notify(cols ...collection) {
	db.notifyMu.Lock()
	defer db.notifyMu.Unlock()

	for _, col := range cols {
		db.watchMu.Lock()
		deliveries := make([]func(), 0, len(db.watchers[col]))
		for _, d := range db.watchers[col] {
			deliveries = append(deliveries, d)
		}
		db.watchMu.Unlock()

		for _, d := range deliveries {
			d()
		}
	}
}
