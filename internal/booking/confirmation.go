package booking

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	confirmationPrefix  = "VF-"
	confirmationCodeLen = 8
)

// NewConfirmationCode returns a display code of the form VF-XXXXXXXX where X
// is an uppercase base-36 character.
func NewConfirmationCode() string {
	id := uuid.New()
	n := binary.BigEndian.Uint64(id[:8])
	s := strings.ToUpper(strconv.FormatUint(n, 36))
	if len(s) < confirmationCodeLen {
		s = strings.Repeat("0", confirmationCodeLen-len(s)) + s
	}
	return confirmationPrefix + s[:confirmationCodeLen]
}
