package auth

import "go-event-platform/internal/model"

// Actor 發起請求的使用者身分，由 middleware 從 token 解出後顯式傳遞
type Actor struct {
	ID   int
	Role model.UserRole
}

// roleRanks 明確的權限等級表，數字越小權限越高
var roleRanks = map[model.UserRole]int{
	model.RoleAdmin:     0,
	model.RoleOrganizer: 1,
	model.RoleUser:      2,
}

// IsAuthorized 檢查角色權限是否達到要求。未知角色一律拒絕。
func IsAuthorized(role, required model.UserRole) bool {
	rank, ok := roleRanks[role]
	requiredRank, requiredOK := roleRanks[required]
	if !ok || !requiredOK {
		return false
	}
	return rank <= requiredRank
}

// CanManageEvent 活動變更權限：admin 或活動擁有者
func CanManageEvent(actor Actor, event *model.Event) bool {
	return IsAuthorized(actor.Role, model.RoleAdmin) || actor.ID == event.OwnerID
}
