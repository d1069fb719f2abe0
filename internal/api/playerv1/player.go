// Package playerv1 defines the messages of the podcastr player and admin
// APIs. Messages travel as JSON with the codec in this package.
package playerv1

// Episode describes one episode.
type Episode struct {
	Id               string `json:"id"`
	Title            string `json:"title"`
	Members          string `json:"members,omitempty"`
	Thumbnail        string `json:"thumbnail,omitempty"`
	Url              string `json:"url"`
	Duration         int32  `json:"duration"`
	DurationAsString string `json:"durationAsString"`
	PublishedAt      string `json:"publishedAt,omitempty"`
}

// Controls tells which player panel buttons are enabled.
type Controls struct {
	Shuffle  bool `json:"shuffle"`
	Previous bool `json:"previous"`
	Play     bool `json:"play"`
	Next     bool `json:"next"`
	Loop     bool `json:"loop"`
}

// PlayerState is the player panel view of a session.
type PlayerState struct {
	Episode       *Episode `json:"episode,omitempty"`
	Status        string   `json:"status"`
	QueueLength   int32    `json:"queueLength"`
	CurrentIndex  int32    `json:"currentIndex"`
	IsPlaying     bool     `json:"isPlaying"`
	IsLooping     bool     `json:"isLooping"`
	IsShuffled    bool     `json:"isShuffled"`
	HasNext       bool     `json:"hasNext"`
	HasPrevious   bool     `json:"hasPrevious"`
	Progress      int32    `json:"progress"`
	ProgressLabel string   `json:"progressLabel"`
	DurationLabel string   `json:"durationLabel"`
	Controls      Controls `json:"controls"`
}

type OpenSessionRequest struct{}

type OpenSessionResponse struct {
	SessionId string       `json:"sessionId"`
	Created   bool         `json:"created"`
	State     *PlayerState `json:"state"`
}

type GetStateRequest struct{}

type PlayRequest struct {
	EpisodeId string `json:"episodeId"`
}

type PlayListRequest struct {
	EpisodeIds []string `json:"episodeIds"`
	Index      int32    `json:"index"`
}

type SetPlayingRequest struct {
	Playing bool `json:"playing"`
}

// ControlRequest carries no fields; it is shared by the parameterless
// player controls.
type ControlRequest struct{}

type SeekRequest struct {
	Position int32 `json:"position"`
}

// StateResponse returns the player state after an operation.
type StateResponse struct {
	State *PlayerState `json:"state"`
	// Moved reports whether PlayNext or PlayPrevious changed the episode.
	Moved bool `json:"moved,omitempty"`
}

type ReportMediaEventRequest struct {
	Event       string `json:"event"`
	CurrentTime int32  `json:"currentTime"`
	Src         string `json:"src"`
}

type ReportMediaEventResponse struct {
	// Accepted is false when the event referred to a source that is no
	// longer loaded.
	Accepted bool `json:"accepted"`
}
