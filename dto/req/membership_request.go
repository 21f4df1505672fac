package req

type MembershipRequest struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
}
