package radius

import (
	"testing"

	"github.com/stretchr/testify/assert"
	layeh "layeh.com/radius"
	"layeh.com/radius/rfc2865"
)

func TestReplyAttributes_Empty(t *testing.T) {
	reply := layeh.New(layeh.CodeAccessAccept, []byte(testSecret))
	assert.Nil(t, replyAttributes(reply))
}

func TestReplyAttributes_SkipsZeroSessionTimeout(t *testing.T) {
	reply := layeh.New(layeh.CodeAccessAccept, []byte(testSecret))
	_ = rfc2865.SessionTimeout_Set(reply, 0)
	_ = rfc2865.FilterID_SetString(reply, "staff")

	assert.Equal(t, map[string]string{AttrFilterID: "staff"}, replyAttributes(reply))
}
