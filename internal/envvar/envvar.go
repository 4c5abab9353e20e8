package envvar

const (
	// QandaEnv is the environment variable used to determine the environment
	QandaEnv = "QANDA_ENV"

	// QandaServerHTTPPort is the environment variable used to determine the HTTP port
	QandaServerHTTPPort = "QANDA_SERVER_HTTP_PORT"

	// QandaArtifactsPath is the environment variable used to override the artifacts directory
	QandaArtifactsPath = "QANDA_ARTIFACTS_PATH"

	// QandaCachePath is the environment variable used to override the pretrained model cache directory
	QandaCachePath = "QANDA_CACHE_PATH"
)
