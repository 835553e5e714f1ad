package util

import (
	"fmt"
	"math/rand"
)

// 닉네임 자동 생성용 단어 목록
var (
	nicknameAdjectives = []string{
		"부지런한", "용감한", "느긋한", "조용한", "씩씩한",
		"친절한", "꼼꼼한", "명랑한", "단단한", "수줍은",
	}
	nicknameNouns = []string{
		"골목대장", "단골손님", "탐험가", "미식가", "산책러",
		"카페지기", "동네지기", "모험가", "길잡이", "여행자",
	}
)

// GenerateNickname generates a random default nickname for new users,
// e.g. "부지런한탐험가3847". Uniqueness is enforced by the users table index;
// callers retry on collision.
func GenerateNickname() string {
	adj := nicknameAdjectives[rand.Intn(len(nicknameAdjectives))]
	noun := nicknameNouns[rand.Intn(len(nicknameNouns))]
	return fmt.Sprintf("%s%s%04d", adj, noun, rand.Intn(10000))
}
