package repository

// Unsubscribe stops a change listener. Calling it more than once is allowed.
type Unsubscribe func()

// Repositories groups one implementation of every repository.
type Repositories struct {
	Users         UserRepository
	Skills        SkillRepository
	SwapRequests  SwapRequestRepository
	Ratings       RatingRepository
	Conversations ConversationRepository
	Notifications NotificationRepository
	Moderation    ModerationRepository
}
