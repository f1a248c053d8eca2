package auth

// Flash severity levels.
const (
	SeverityError = "error"
	SeverityInfo  = "info"
)

// Message keys attached to flash messages. The keys are resolved to
// localized text by the host application's message catalog; this package
// never carries message text itself.
const (
	MsgEmailMissing     = "Error.Passport.Email.Missing"
	MsgEmailExists      = "Error.Passport.Email.Exists"
	MsgEmailNotFound    = "Error.Passport.Email.NotFound"
	MsgUsernameNotFound = "Error.Passport.Username.NotFound"
	MsgUserExists       = "Error.Passport.User.Exists"
	MsgPasswordMissing  = "Error.Passport.Password.Missing"
	MsgPasswordInvalid  = "Error.Passport.Password.Invalid"
	MsgPasswordWrong    = "Error.Passport.Password.Wrong"
	MsgPasswordNotSet   = "Error.Passport.Password.NotSet"
	MsgSiteMissing      = "Error.Passport.Site.Missing"
	MsgSiteNotFound     = "Error.Passport.Site.NotFound"
)

// FlashWriter is a write-only sink for one-shot user-visible notifications,
// owned by the host web layer. Implementations must be safe to call with
// any severity/key pair and must not fail.
type FlashWriter interface {
	Flash(severity, key string)
}

// Recorder is an in-memory FlashWriter. The host framework provides the
// real sink; Recorder serves tests and the CLI.
type Recorder struct {
	Messages []FlashMessage
}

// FlashMessage is one recorded notification.
type FlashMessage struct {
	Severity string
	Key      string
}

// Flash implements FlashWriter.
func (r *Recorder) Flash(severity, key string) {
	r.Messages = append(r.Messages, FlashMessage{Severity: severity, Key: key})
}

// Keys returns the recorded message keys in order.
func (r *Recorder) Keys() []string {
	keys := make([]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		keys = append(keys, m.Key)
	}
	return keys
}
