package apierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKindSentinel(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(OpPoll, KindTimeout, nil))

	assert.True(t, errors.Is(err, ErrTimeout))
	assert.False(t, errors.Is(err, ErrRecognitionFailed))
	assert.Equal(t, KindTimeout, KindOf(err))
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Malformed(OpPoll, "{}", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"translate status", Status(OpTranslate, 401, "denied"), MsgTranslate},
		{"translate network", New(OpTranslate, KindCredentialOrRequest, errors.New("dial")), MsgTranslate},
		{"submit status", Status(OpSubmit, 400, `{"error":"bad"}`), `Error recognizing text: 400, {"error":"bad"}`},
		{"submit network", New(OpSubmit, KindCredentialOrRequest, errors.New("dial")), MsgImage},
		{"failed", New(OpPoll, KindRecognitionFailed, nil), MsgRecognitionFailed},
		{"malformed", Malformed(OpPoll, "{}", nil), MsgMalformed},
		{"timeout", fmt.Errorf("ctx: %w", New(OpPoll, KindTimeout, nil)), MsgTimeout},
		{"invalid input", InvalidInput(OpTranslate, "text is empty"), "Error: text is empty"},
		{"plain", errors.New("disk full"), "Error: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestError_ErrorString(t *testing.T) {
	err := Status(OpSubmit, 403, "forbidden")
	assert.Equal(t, "submit: credential or request error (status 403): forbidden", err.Error())
}
