package config

// NewDatasetForTest creates a Dataset config for testing purposes
func NewDatasetForTest(backend, dir, baseURL string) *Dataset {
	return &Dataset{
		backend: backend,
		dir:     dir,
		baseURL: baseURL,
	}
}

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
