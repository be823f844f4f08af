package domain

type UserID = int64
type SourceID = int64
type SubmissionID = int64
type ReplyID = int64
