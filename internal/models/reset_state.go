package models

// ResetStage tags where a browser session is in the password reset flow.
type ResetStage string

const (
	ResetIdle                ResetStage = "idle"
	ResetPendingVerification ResetStage = "pending_verification"
	ResetVerified            ResetStage = "verified"
)

// ResetState is the per-session reset context. Only the fields belonging to
// Stage are meaningful; constructors below are the only way the flow builds
// non-idle states.
type ResetState struct {
	Stage   ResetStage  `json:"stage"`
	UserID  int64       `json:"user_id,omitempty"`
	Method  ResetMethod `json:"method,omitempty"`
	ResetID int64       `json:"reset_id,omitempty"`
}

func IdleReset() ResetState {
	return ResetState{Stage: ResetIdle}
}

// PendingReset is set once a code was issued (or withheld by cooldown).
// userID is zero when the account lookup was concealed.
func PendingReset(userID int64, method ResetMethod) ResetState {
	return ResetState{Stage: ResetPendingVerification, UserID: userID, Method: method}
}

// VerifiedReset pins the exact reset row that must be consumed at commit.
func VerifiedReset(userID, resetID int64, method ResetMethod) ResetState {
	return ResetState{Stage: ResetVerified, UserID: userID, ResetID: resetID, Method: method}
}

// Normalize maps an empty or unknown stage to idle.
func (s ResetState) Normalize() ResetState {
	switch s.Stage {
	case ResetIdle, ResetPendingVerification, ResetVerified:
		return s
	default:
		return IdleReset()
	}
}

// Pending returns the pending account and method. ok is false unless the
// state is a well-formed PendingVerification.
func (s ResetState) Pending() (userID int64, method ResetMethod, ok bool) {
	if s.Stage != ResetPendingVerification || !s.Method.Valid() || s.UserID < 0 {
		return 0, "", false
	}
	return s.UserID, s.Method, true
}

// Verified returns the pinned reset context. ok is false unless the state is
// a well-formed Verified state.
func (s ResetState) Verified() (userID, resetID int64, method ResetMethod, ok bool) {
	if s.Stage != ResetVerified || !s.Method.Valid() || s.UserID <= 0 || s.ResetID <= 0 {
		return 0, 0, "", false
	}
	return s.UserID, s.ResetID, s.Method, true
}
