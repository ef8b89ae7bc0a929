package drill

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all drill configuration.
type Config struct {
	DBPath string       `yaml:"db_path"`
	Import ImportConfig `yaml:"import"`
	Exam   ExamConfig   `yaml:"exam"`
}

// ImportConfig controls source-file loading.
type ImportConfig struct {
	MaxFileSize int64 `yaml:"max_file_size"`
	MinPDFChars int   `yaml:"min_pdf_chars"`
}

// ExamConfig holds the initial practice preferences. Saved settings in the
// database take precedence once the user changes them.
type ExamConfig struct {
	DefaultQuestionCount int   `yaml:"default_question_count"`
	ShowExplanation      *bool `yaml:"show_explanation"`
	RandomOrder          *bool `yaml:"random_order"`
}

func (c *Config) defaults() {
	if c.DBPath == "" {
		c.DBPath = "quizdrill.db"
	}
	if c.Import.MaxFileSize <= 0 {
		c.Import.MaxFileSize = 100 * 1024 * 1024
	}
	if c.Import.MinPDFChars <= 0 {
		c.Import.MinPDFChars = 50
	}
	if c.Exam.DefaultQuestionCount <= 0 {
		c.Exam.DefaultQuestionCount = 20
	}
	if c.Exam.ShowExplanation == nil {
		t := true
		c.Exam.ShowExplanation = &t
	}
	if c.Exam.RandomOrder == nil {
		t := true
		c.Exam.RandomOrder = &t
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
