package call

import "errors"

// ErrConnectionTerminated indicates one of the EncryptedConnections
// reported its counter exhausted; the call layer tears down rather than
// continuing to frame messages on that connection.
var ErrConnectionTerminated = errors.New("call: connection terminated (counter exhausted)")
