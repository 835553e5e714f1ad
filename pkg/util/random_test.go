package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateNickname(t *testing.T) {
	nickname := GenerateNickname()
	assert.NotEmpty(t, nickname)

	// 형식: 형용사 + 명사 + 4자리 숫자
	runes := []rune(nickname)
	assert.GreaterOrEqual(t, len(runes), 5)
	suffix := string(runes[len(runes)-4:])
	assert.Regexp(t, `^[0-9]{4}$`, suffix)
}
