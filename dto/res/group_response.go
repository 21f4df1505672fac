package res

type GroupResponse struct {
	GroupName string   `json:"groupName"`
	CreatedBy string   `json:"createdBy"`
	CreatedAt string   `json:"createdAt"`
	ExpiresAt string   `json:"expiresAt"`
	Members   []string `json:"members"`
}

type ExpiryResponse struct {
	MinutesLeft int  `json:"minutesLeft"`
	IsExpired   bool `json:"isExpired"`
}

type LeaveResponse struct {
	Left bool `json:"left"`
}

type UpdatedResponse struct {
	Updated bool `json:"updated"`
}

type RemovedResponse struct {
	Removed bool `json:"removed"`
}

type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}
