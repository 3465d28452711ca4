package domain

// AuthState is the authorization checker's state machine position.
type AuthState string

const (
	AuthIdle            AuthState = "idle"
	AuthDebouncing      AuthState = "debouncing"
	AuthChecking        AuthState = "checking"
	AuthAuthorized      AuthState = "authorized"
	AuthDenied          AuthState = "denied"
	AuthConnectionError AuthState = "connection_error"
)

// AccountInfo is the account metadata returned for an authorized operator.
type AccountInfo struct {
	ResponsibleName string `json:"responsible_name"`
	OutputPath      string `json:"output_path"`
}

// AuthorizationResult is the externally visible verdict of the checker.
// Account is set only in the authorized state, Reason only when denied.
type AuthorizationResult struct {
	State   AuthState    `json:"state"`
	Account *AccountInfo `json:"account,omitempty"`
	Reason  string       `json:"reason,omitempty"`

	// CheckedCUIL is the normalized CUIL the verdict belongs to. A verdict
	// whose CUIL no longer matches the current input must be discarded.
	CheckedCUIL string `json:"-"`
}

// Settled reports whether the checker holds a remote verdict rather than an
// in-flight or empty state.
func (r AuthorizationResult) Settled() bool {
	switch r.State {
	case AuthAuthorized, AuthDenied, AuthConnectionError:
		return true
	}
	return false
}

// ModalVisible reports whether the validation modal should render. The modal
// shows while a check is running or once a verdict exists, never while idle
// or waiting out the debounce window.
func (r AuthorizationResult) ModalVisible() bool {
	return r.State == AuthChecking || r.Settled()
}

// UserValidation is the raw remote response to an authorization check.
type UserValidation struct {
	Valid   bool         `json:"valid"`
	Message string       `json:"message,omitempty"`
	Account *AccountInfo `json:"account,omitempty"`
}
