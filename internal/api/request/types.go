package request

// JoinRequest is the request body for joining the matchmaker
type JoinRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InviteRequest is the request body for inviting a player
type InviteRequest struct {
	InviterID string `json:"inviter_id"`
	InviteeID string `json:"invitee_id"`
}

// PairRequest names both players of a game, for starting or ending it
type PairRequest struct {
	Player1ID string `json:"player1_id"`
	Player2ID string `json:"player2_id"`
}

// MoveRequest is the request body for submitting a move
type MoveRequest struct {
	PlayerID string `json:"player_id"`
	GameID   string `json:"game_id"`
	Choice   string `json:"choice"`
}
