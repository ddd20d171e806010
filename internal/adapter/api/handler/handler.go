package handler

import (
	"github.com/labstack/echo/v4"

	"swapskill/internal/usecase"
	"swapskill/pkg/response"
	"swapskill/pkg/utils"
)

const defaultPageSize = 20

var (
	userHandler         *UserHandler
	skillHandler        *SkillHandler
	swapHandler         *SwapHandler
	ratingHandler       *RatingHandler
	chatHandler         *ChatHandler
	notificationHandler *NotificationHandler
	adminHandler        *AdminHandler
	fileHandler         *FileHandler
)

func Setup(
	userUseCase *usecase.UserUseCase,
	skillUseCase *usecase.SkillUseCase,
	swapUseCase *usecase.SwapUseCase,
	ratingUseCase *usecase.RatingUseCase,
	chatUseCase *usecase.ChatUseCase,
	notificationUseCase *usecase.NotificationUseCase,
	adminUseCase *usecase.AdminUseCase,
	uploadUseCase *usecase.UploadUseCase,
) {
	userHandler = NewUserHandler(userUseCase)
	skillHandler = NewSkillHandler(skillUseCase)
	swapHandler = NewSwapHandler(swapUseCase)
	ratingHandler = NewRatingHandler(ratingUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
	adminHandler = NewAdminHandler(adminUseCase)
	fileHandler = NewFileHandler(uploadUseCase)
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetSkillHandler() *SkillHandler {
	return skillHandler
}

func GetSwapHandler() *SwapHandler {
	return swapHandler
}

func GetRatingHandler() *RatingHandler {
	return ratingHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

// uid returns the caller set by AuthMiddleware.
func uid(c echo.Context) string {
	id, _ := c.Get("uid").(string)
	return id
}

// paginate slices an already loaded list with ?page= and ?limit=.
func paginate[T any](c echo.Context, items []T) error {
	params := utils.GetPaginationParams(c, defaultPageSize)
	start, end := params.Window(len(items))
	return response.Paginated(c, items[start:end], int64(len(items)), params.Page, params.PageSize)
}
