package req

type CreateGroupRequest struct {
	GroupName     string `json:"groupName" validate:"required,min=1,max=50"`
	CreatedBy     string `json:"createdBy" validate:"required,min=1,max=50"`
	ExpiryMinutes int    `json:"expiryMinutes"`
}
