package crypto

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// SecureFieldHash previews sensitive byte slices for a debug log line
// without exposing the material itself: only the first 8 bytes, hex
// encoded, with a "..." suffix when truncated. DeriveMsgKey uses it to
// log the derived authenticator.
func SecureFieldHash(data []byte, name string) logrus.Fields {
	preview := "nil"
	if len(data) > 0 {
		previewLen := 8
		if len(data) < previewLen {
			previewLen = len(data)
		}
		preview = fmt.Sprintf("%x", data[:previewLen])
		if len(data) > previewLen {
			preview += "..."
		}
	}

	return logrus.Fields{
		name + "_preview": preview,
		name + "_size":    len(data),
	}
}
