package mapper

import (
	coreEntity "event-manager-api/core/entity"
	"event-manager-api/modules/notification/dto"
	"event-manager-api/modules/notification/entity"
)

func ToNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	data := map[string]any(n.Data)
	if data == nil {
		data = map[string]any{}
	}
	return dto.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Data:      data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToPaginatedResponse(page *entity.PaginatedNotificationEntity) *coreEntity.Pagination[dto.NotificationResponse] {
	items := make([]dto.NotificationResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToNotificationResponse(&page.Items[i]))
	}
	return &coreEntity.Pagination[dto.NotificationResponse]{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}
