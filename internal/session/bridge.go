package session

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
)

// Handle cancels one subscription. Cancel may be called any number of times.
type Handle struct {
	once    sync.Once
	cancels []func()
}

func newHandle(cancels ...func()) *Handle {
	return &Handle{cancels: cancels}
}

func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		for _, cancel := range h.cancels {
			cancel()
		}
	})
}

// Combine returns a handle that cancels every given handle.
func Combine(handles ...*Handle) *Handle {
	cancels := make([]func(), 0, len(handles))
	for _, h := range handles {
		cancels = append(cancels, h.Cancel)
	}
	return newHandle(cancels...)
}

// guard drops deliveries once its subscription is cancelled, so a listener
// that fires late cannot write into a slice it no longer owns.
type guard struct {
	active atomic.Bool
}

func newGuard() *guard {
	g := &guard{}
	g.active.Store(true)
	return g
}

func (g *guard) handle(unsubscribe repository.Unsubscribe) *Handle {
	return newHandle(func() {
		g.active.Store(false)
		unsubscribe()
	})
}

// Bridge attaches live listeners to a Store. It keeps at most one listener
// per concern: opening another conversation cancels the previous one first.
type Bridge struct {
	store *Store

	mu             sync.Mutex
	conversation   *Handle
	conversationID string
	notifications  *Handle
	admin          *Handle
}

func NewBridge(store *Store) *Bridge {
	return &Bridge{store: store}
}

// WatchConversation streams conversationID's messages into the cache.
func (b *Bridge) WatchConversation(ctx context.Context, conversationID string) (*Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.conversation.Cancel()
	b.conversation = nil
	b.conversationID = ""

	g := newGuard()
	unsubscribe, err := b.store.services.Chat.WatchMessages(ctx, b.store.UserID(), conversationID, func(messages []*entity.Message) {
		if !g.active.Load() {
			return
		}
		b.store.update(func(st State) State { return replaceMessages(st, conversationID, messages) })
	})
	if err != nil {
		g.active.Store(false)
		b.store.update(func(st State) State { return setActiveConversation(st, "") })
		b.store.fail("WatchConversation", err)
		return nil, err
	}

	h := g.handle(unsubscribe)
	b.conversation = h
	b.conversationID = conversationID
	b.store.update(func(st State) State { return setActiveConversation(st, conversationID) })
	return h, nil
}

// ConversationID returns the conversation currently being watched.
func (b *Bridge) ConversationID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversationID
}

// CloseConversation cancels the conversation listener, if any.
func (b *Bridge) CloseConversation() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.conversation.Cancel()
	b.conversation = nil
	b.conversationID = ""
	b.store.update(func(st State) State { return setActiveConversation(st, "") })
}

func (b *Bridge) WatchNotifications(ctx context.Context) (*Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.notifications.Cancel()
	b.notifications = nil

	g := newGuard()
	unsubscribe, err := b.store.services.Notifications.WatchNotifications(ctx, b.store.UserID(), func(notifications []*entity.Notification) {
		if !g.active.Load() {
			return
		}
		b.store.update(func(st State) State { return replaceNotifications(st, notifications) })
	})
	if err != nil {
		g.active.Store(false)
		b.store.fail("WatchNotifications", err)
		return nil, err
	}

	b.notifications = g.handle(unsubscribe)
	return b.notifications, nil
}

// WatchAdmin listens to flagged content and active broadcasts. The returned
// handle stops both; if the second listener cannot start, the first is
// stopped before returning.
func (b *Bridge) WatchAdmin(ctx context.Context) (*Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.admin.Cancel()
	b.admin = nil

	flagsGuard := newGuard()
	unsubscribeFlags, err := b.store.services.Admin.WatchFlags(ctx, func(flags []*entity.FlaggedContent) {
		if !flagsGuard.active.Load() {
			return
		}
		b.store.update(func(st State) State { return replaceFlags(st, flags) })
	})
	if err != nil {
		flagsGuard.active.Store(false)
		b.store.fail("WatchAdmin", err)
		return nil, err
	}
	flags := flagsGuard.handle(unsubscribeFlags)

	messagesGuard := newGuard()
	unsubscribeMessages, err := b.store.services.Admin.WatchSystemMessages(ctx, func(messages []*entity.SystemMessage) {
		if !messagesGuard.active.Load() {
			return
		}
		sorted := newestFirst(messages)
		b.store.update(func(st State) State { return replaceSystemMessages(st, sorted) })
	})
	if err != nil {
		messagesGuard.active.Store(false)
		flags.Cancel()
		b.store.fail("WatchAdmin", err)
		return nil, err
	}

	b.admin = Combine(flags, messagesGuard.handle(unsubscribeMessages))
	return b.admin, nil
}

// Close cancels every listener the bridge holds.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.conversation.Cancel()
	b.notifications.Cancel()
	b.admin.Cancel()
	b.conversation, b.notifications, b.admin = nil, nil, nil
	b.conversationID = ""
}

// The active-broadcast query has no ordering, so snapshots are sorted here.
func newestFirst(messages []*entity.SystemMessage) []*entity.SystemMessage {
	sorted := append([]*entity.SystemMessage(nil), messages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}
