package dpu

// SecureMonitor switches channels in and out of a secure session. It is
// usually a thin client for a trusted-firmware call.
type SecureMonitor interface {
	SetChannelSecure(id int, secure bool) error
}

// SecureMonitorFunc adapts a function to SecureMonitor.
type SecureMonitorFunc func(id int, secure bool) error

// SetChannelSecure calls f(id, secure).
func (f SecureMonitorFunc) SetChannelSecure(id int, secure bool) error {
	return f(id, secure)
}
