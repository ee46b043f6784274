package constant

type RecordingType string

const (
	RecordingTypeTerminal           RecordingType = "terminal"
	RecordingTypeAudioTranscription RecordingType = "audio_transcription"
)

func (r RecordingType) String() string {
	return string(r)
}

type ObjectType string

const (
	ObjectTypeRecording ObjectType = "recording"
	ObjectTypeAudioFile ObjectType = "audio_file"
)

func (o ObjectType) String() string {
	return string(o)
}

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}
