package repository

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

const (
	usersCollection          = "users"
	skillsCollection         = "skills"
	swapRequestsCollection   = "swapRequests"
	ratingsCollection        = "ratings"
	conversationsCollection  = "conversations"
	messagesCollection       = "messages"
	notificationsCollection  = "notifications"
	flaggedContentCollection = "flaggedContent"
	systemMessagesCollection = "systemMessages"
)

// prefixEnd is the upper bound of a prefix range query.
const prefixEnd = "\uf8ff"

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

func getDocument[T any](ctx context.Context, ref *firestore.DocumentRef, resource string) (*T, error) {
	doc, err := ref.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound(resource, err)
		}
		return nil, errors.Internal("Failed to get "+resource, err)
	}

	var v T
	if err := doc.DataTo(&v); err != nil {
		return nil, errors.Internal("Failed to parse "+resource+" data", err)
	}
	return &v, nil
}

func decodeAll[T any](docs []*firestore.DocumentSnapshot, resource string) []*T {
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.DataTo(&v); err != nil {
			logger.Warn("Skipping malformed %s document %s: %v", resource, doc.Ref.ID, err)
			continue
		}
		out = append(out, &v)
	}
	return out
}

func queryAll[T any](ctx context.Context, q firestore.Query, resource string) ([]*T, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query "+resource, err)
	}
	return decodeAll[T](docs, resource), nil
}

func countQuery(ctx context.Context, q firestore.Query) (int64, error) {
	results, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, errors.Internal("Failed to count documents", err)
	}

	value, ok := results["all"].(*firestorepb.Value)
	if !ok {
		return 0, errors.Internal("Unexpected count aggregation result", nil)
	}
	return value.GetIntegerValue(), nil
}

// watchQuery runs a snapshot listener for q on its own goroutine and hands
// every snapshot to fn until the returned function is called.
func watchQuery[T any](ctx context.Context, q firestore.Query, resource string, decode func([]*firestore.DocumentSnapshot) []*T, fn func([]*T)) repository.Unsubscribe {
	ctx, cancel := context.WithCancel(ctx)
	snapshots := q.Snapshots(ctx)

	go func() {
		defer snapshots.Stop()
		for {
			snap, err := snapshots.Next()
			if err != nil {
				if ctx.Err() != nil || err == iterator.Done || status.Code(err) == codes.Canceled {
					return
				}
				logger.Error("%s listener stopped: %v", resource, err)
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Error("%s listener failed to read snapshot: %v", resource, err)
				continue
			}
			fn(decode(docs))
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }
}

func NewFirestoreRepositories(client *firestore.Client) *repository.Repositories {
	return &repository.Repositories{
		Users:         NewFirestoreUserRepository(client),
		Skills:        NewFirestoreSkillRepository(client),
		SwapRequests:  NewFirestoreSwapRequestRepository(client),
		Ratings:       NewFirestoreRatingRepository(client),
		Conversations: NewFirestoreConversationRepository(client),
		Notifications: NewFirestoreNotificationRepository(client),
		Moderation:    NewFirestoreModerationRepository(client),
	}
}
