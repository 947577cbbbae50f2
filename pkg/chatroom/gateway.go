package chatroom

import "context"

// Gateway is the port to the external chat-room provider. Every
// operation may fail transiently; callers that persist state alongside
// a gateway call must roll their transaction back on error.
type Gateway interface {
	CreateGroup(ctx context.Context, name string) (groupId string, err error)
	DeleteGroup(ctx context.Context, groupId string) error
	AddUserToGroup(ctx context.Context, groupId, chatUserId string) error
	RemoveUserFromGroup(ctx context.Context, groupId, chatUserId string) error
	MuteUser(ctx context.Context, groupId, chatUserId string) error
	UnmuteUser(ctx context.Context, groupId, chatUserId string) error
	UpdateGroupKey(ctx context.Context, groupId, key string) error
	CleanGroupHistory(ctx context.Context, groupId string) error
}
