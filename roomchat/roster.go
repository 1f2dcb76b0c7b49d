package roomchat

import (
	"bytes"
	"encoding/json"
)

// normalizeRoster decodes an online_users payload. The server sends either a
// bare list on broadcast or a wrapped {users: [...]} object in reply to
// who_is_online; older deployments sent plain username strings. Any other
// shape degrades to an empty roster with a logged anomaly.
func normalizeRoster(data json.RawMessage, logger Logger) []OnlineUser {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []OnlineUser{}
	}

	if data[0] == '{' {
		var wrapped struct {
			Users json.RawMessage `json:"users"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil || len(wrapped.Users) == 0 {
			logger.Warn("unexpected online_users payload shape", map[string]any{
				"payload": string(data),
			})
			return []OnlineUser{}
		}
		return normalizeRoster(wrapped.Users, logger)
	}

	if data[0] == '[' {
		var users []OnlineUser
		if err := json.Unmarshal(data, &users); err == nil {
			return users
		}
		var names []string
		if err := json.Unmarshal(data, &names); err == nil {
			users = make([]OnlineUser, 0, len(names))
			for _, name := range names {
				users = append(users, OnlineUser{Username: name})
			}
			return users
		}
	}

	logger.Warn("unexpected online_users payload shape", map[string]any{
		"payload": string(data),
	})
	return []OnlineUser{}
}
