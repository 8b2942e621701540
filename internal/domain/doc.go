// Package domain holds the record types shared by the study engine.
//
// This package contains type definitions and small pure helpers only. All
// other internal packages import domain; domain imports nothing internal.
//
// Key design constraints:
//   - Timestamps are epoch milliseconds (int64), never time.Time
//   - Attempts are immutable once appended to the log
//   - Card keys are "<quizID>::<itemID>" with NFC-normalized parts
//   - All JSON tags use snake_case
package domain
