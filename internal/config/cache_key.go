package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TeacherOptionsKey returns the cache key for the teacher suggestion list
func (r *CacheKeyStruct) TeacherOptionsKey() string {
	return "options:teachers"
}

// RoomOptionsKey returns the cache key for the room suggestion list
func (r *CacheKeyStruct) RoomOptionsKey() string {
	return "options:rooms"
}

// CourseOptionsKey returns the cache key for the course suggestion list
func (r *CacheKeyStruct) CourseOptionsKey() string {
	return "options:courses"
}

// SemesterOptionsKey returns the cache key for the derived semester list
func (r *CacheKeyStruct) SemesterOptionsKey() string {
	return "options:semesters"
}

// TimetableSavedChannel returns the pub/sub channel notified after a
// timetable save completes
func (r *CacheKeyStruct) TimetableSavedChannel(timetableID string) string {
	return fmt.Sprintf("timetable:%s:saved", timetableID)
}

var CacheKey = NewCacheKeyStruct()
