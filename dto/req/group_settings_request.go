package req

// GroupSettingsRequest carries the optional rename and reschedule fields for a
// group. At least one of NewGroupName or NewExpiryMinutes must be set.
type GroupSettingsRequest struct {
	Requester        string  `json:"requester" validate:"required,min=1,max=50"`
	NewGroupName     *string `json:"newGroupName,omitempty"`
	NewExpiryMinutes *int    `json:"newExpiryMinutes,omitempty"`
}
