package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AssistantHistoryKey returns the cache key for a user's assistant conversation.
func (r *CacheKeyStruct) AssistantHistoryKey(userID string) string {
	return fmt.Sprintf("assistant:%s:history", userID)
}

// MeetingPresenceKey returns the cache key for a meeting's participant set.
func (r *CacheKeyStruct) MeetingPresenceKey(meetingID string) string {
	return fmt.Sprintf("meeting:%s:participants", meetingID)
}

// MeetingPresenceChannel returns the Redis PubSub channel for meeting presence events.
func (r *CacheKeyStruct) MeetingPresenceChannel(meetingID string) string {
	return fmt.Sprintf("meeting:%s:presence", meetingID)
}

var CacheKey = NewCacheKeyStruct()
