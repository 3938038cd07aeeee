package common

import (
	"strconv"
)

// RedisKeyPresence is a sorted set of user ids scored by their last ping in
// unix seconds.
const RedisKeyPresence = "presence:online"

func RedisMemberPresence(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
