// Package config handles loading interview.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/amonks/interview/internal/paths"
)

// ProjectFileName is the per-directory config file merged over the global one.
const ProjectFileName = "interview.toml"

// Defaults used when neither config file nor environment sets a value.
const (
	DefaultLLMProvider      = "openai"
	DefaultLLMModel         = "llama-3.3-70b-versatile"
	DefaultAnthropicModel   = "claude-sonnet-4-5"
	DefaultBaseURL          = "https://api.groq.com/openai/v1"
	DefaultTranscribeModel  = "whisper-large-v3"
	DefaultDomain           = "Python"
	DefaultQuestionCount    = 5
	DefaultSampleRate       = 16000
	DefaultRunTimeout       = 5 * time.Second
	DefaultCompileTimeout   = 10 * time.Second
	DefaultCppStandard      = "c++17"
	DefaultPythonExecutable = "python3"
)

// Config represents the merged interview configuration.
type Config struct {
	LLM        LLM        `toml:"llm"`
	Transcribe Transcribe `toml:"transcribe"`
	Recording  Recording  `toml:"recording"`
	Sandbox    Sandbox    `toml:"sandbox"`
	Interview  Interview  `toml:"interview"`
}

// LLM selects the model that writes questions and feedback.
type LLM struct {
	// Provider is "openai" (any OpenAI-compatible endpoint) or "anthropic".
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base-url"`
	APIKey   string `toml:"api-key"`
}

// Transcribe configures the speech-to-text endpoint.
type Transcribe struct {
	Model   string `toml:"model"`
	BaseURL string `toml:"base-url"`
	APIKey  string `toml:"api-key"`
}

// Recording configures microphone capture.
type Recording struct {
	// Command overrides the capture command. It must write raw s16le PCM to stdout.
	Command    []string `toml:"command"`
	SampleRate int      `toml:"sample-rate"`
	Dir        string   `toml:"dir"`
}

// Sandbox configures code execution.
type Sandbox struct {
	Python         string        `toml:"python"`
	Node           string        `toml:"node"`
	Javac          string        `toml:"javac"`
	Java           string        `toml:"java"`
	Cxx            string        `toml:"cxx"`
	CppStandard    string        `toml:"cpp-standard"`
	RunTimeout     time.Duration `toml:"run-timeout"`
	CompileTimeout time.Duration `toml:"compile-timeout"`
	// CPUSeconds and MemoryMB apply ulimit caps to submitted programs when non-zero.
	CPUSeconds int `toml:"cpu-seconds"`
	MemoryMB   int `toml:"memory-mb"`
}

// Interview holds practice-session defaults.
type Interview struct {
	User       string `toml:"user"`
	Domain     string `toml:"domain"`
	Questions  int    `toml:"questions"`
	PromptsDir string `toml:"prompts-dir"`
}

// Load loads configuration from dir and the global config file, then applies
// environment overrides and defaults.
func Load(dir string) (*Config, error) {
	globalPath, err := GlobalPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, ProjectFileName))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	merged.applyEnv(os.Getenv)
	merged.applyDefaults()
	return merged, nil
}

// GlobalPath returns the location of the user's config.toml.
func GlobalPath() (string, error) {
	dir, err := paths.DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: unknown key %s", path, undecoded[0])
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	str := func(project, global string, key ...string) string {
		return mergeString(projectMeta.IsDefined(key...), project, global)
	}
	num := func(project, global int, key ...string) int {
		return mergeValue(projectMeta.IsDefined(key...), project, global)
	}
	dur := func(project, global time.Duration, key ...string) time.Duration {
		return mergeValue(projectMeta.IsDefined(key...), project, global)
	}

	p, g := projectCfg, globalCfg
	merged := Config{}

	merged.LLM.Provider = str(p.LLM.Provider, g.LLM.Provider, "llm", "provider")
	merged.LLM.Model = str(p.LLM.Model, g.LLM.Model, "llm", "model")
	merged.LLM.BaseURL = str(p.LLM.BaseURL, g.LLM.BaseURL, "llm", "base-url")
	merged.LLM.APIKey = str(p.LLM.APIKey, g.LLM.APIKey, "llm", "api-key")

	merged.Transcribe.Model = str(p.Transcribe.Model, g.Transcribe.Model, "transcribe", "model")
	merged.Transcribe.BaseURL = str(p.Transcribe.BaseURL, g.Transcribe.BaseURL, "transcribe", "base-url")
	merged.Transcribe.APIKey = str(p.Transcribe.APIKey, g.Transcribe.APIKey, "transcribe", "api-key")

	if projectMeta.IsDefined("recording", "command") {
		merged.Recording.Command = append([]string(nil), p.Recording.Command...)
	} else if globalMeta.IsDefined("recording", "command") {
		merged.Recording.Command = append([]string(nil), g.Recording.Command...)
	}
	merged.Recording.SampleRate = num(p.Recording.SampleRate, g.Recording.SampleRate, "recording", "sample-rate")
	merged.Recording.Dir = str(p.Recording.Dir, g.Recording.Dir, "recording", "dir")

	merged.Sandbox.Python = str(p.Sandbox.Python, g.Sandbox.Python, "sandbox", "python")
	merged.Sandbox.Node = str(p.Sandbox.Node, g.Sandbox.Node, "sandbox", "node")
	merged.Sandbox.Javac = str(p.Sandbox.Javac, g.Sandbox.Javac, "sandbox", "javac")
	merged.Sandbox.Java = str(p.Sandbox.Java, g.Sandbox.Java, "sandbox", "java")
	merged.Sandbox.Cxx = str(p.Sandbox.Cxx, g.Sandbox.Cxx, "sandbox", "cxx")
	merged.Sandbox.CppStandard = str(p.Sandbox.CppStandard, g.Sandbox.CppStandard, "sandbox", "cpp-standard")
	merged.Sandbox.RunTimeout = dur(p.Sandbox.RunTimeout, g.Sandbox.RunTimeout, "sandbox", "run-timeout")
	merged.Sandbox.CompileTimeout = dur(p.Sandbox.CompileTimeout, g.Sandbox.CompileTimeout, "sandbox", "compile-timeout")
	merged.Sandbox.CPUSeconds = num(p.Sandbox.CPUSeconds, g.Sandbox.CPUSeconds, "sandbox", "cpu-seconds")
	merged.Sandbox.MemoryMB = num(p.Sandbox.MemoryMB, g.Sandbox.MemoryMB, "sandbox", "memory-mb")

	merged.Interview.User = str(p.Interview.User, g.Interview.User, "interview", "user")
	merged.Interview.Domain = str(p.Interview.Domain, g.Interview.Domain, "interview", "domain")
	merged.Interview.Questions = num(p.Interview.Questions, g.Interview.Questions, "interview", "questions")
	merged.Interview.PromptsDir = str(p.Interview.PromptsDir, g.Interview.PromptsDir, "interview", "prompts-dir")

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	return strings.TrimSpace(mergeValue(projectDefined, projectValue, globalValue))
}

func mergeValue[T any](projectDefined bool, projectValue, globalValue T) T {
	if projectDefined {
		return projectValue
	}
	return globalValue
}

// applyEnv lets environment variables win over both config files.
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(target *string, names ...string) {
		for _, name := range names {
			if value := strings.TrimSpace(getenv(name)); value != "" {
				*target = value
				return
			}
		}
	}

	set(&c.LLM.Provider, "INTERVIEW_LLM_PROVIDER")
	set(&c.LLM.Model, "INTERVIEW_LLM_MODEL")
	set(&c.LLM.BaseURL, "INTERVIEW_LLM_BASE_URL")
	set(&c.LLM.APIKey, "INTERVIEW_LLM_API_KEY")
	set(&c.Transcribe.APIKey, "INTERVIEW_TRANSCRIBE_API_KEY")

	// GROQ_API_KEY serves both endpoints when neither has a dedicated key.
	if c.LLM.APIKey == "" && strings.EqualFold(c.LLM.Provider, "anthropic") {
		set(&c.LLM.APIKey, "ANTHROPIC_API_KEY")
	}
	if c.LLM.APIKey == "" {
		set(&c.LLM.APIKey, "GROQ_API_KEY")
	}
	if c.Transcribe.APIKey == "" {
		set(&c.Transcribe.APIKey, "GROQ_API_KEY")
	}
}

func (c *Config) applyDefaults() {
	c.LLM.Provider = strings.ToLower(c.LLM.Provider)
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultLLMProvider
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultLLMModel
		if c.LLM.Provider == "anthropic" {
			c.LLM.Model = DefaultAnthropicModel
		}
	}
	if c.LLM.BaseURL == "" && c.LLM.Provider == "openai" {
		c.LLM.BaseURL = DefaultBaseURL
	}
	if c.Transcribe.Model == "" {
		c.Transcribe.Model = DefaultTranscribeModel
	}
	if c.Transcribe.BaseURL == "" {
		c.Transcribe.BaseURL = DefaultBaseURL
	}
	if c.Recording.SampleRate <= 0 {
		c.Recording.SampleRate = DefaultSampleRate
	}
	if c.Sandbox.Python == "" {
		c.Sandbox.Python = DefaultPythonExecutable
	}
	if c.Sandbox.Node == "" {
		c.Sandbox.Node = "node"
	}
	if c.Sandbox.Javac == "" {
		c.Sandbox.Javac = "javac"
	}
	if c.Sandbox.Java == "" {
		c.Sandbox.Java = "java"
	}
	if c.Sandbox.Cxx == "" {
		c.Sandbox.Cxx = "g++"
	}
	if c.Sandbox.CppStandard == "" {
		c.Sandbox.CppStandard = DefaultCppStandard
	}
	if c.Sandbox.RunTimeout <= 0 {
		c.Sandbox.RunTimeout = DefaultRunTimeout
	}
	if c.Sandbox.CompileTimeout <= 0 {
		c.Sandbox.CompileTimeout = DefaultCompileTimeout
	}
	if c.Interview.Domain == "" {
		c.Interview.Domain = DefaultDomain
	}
	if c.Interview.Questions <= 0 {
		c.Interview.Questions = DefaultQuestionCount
	}
}
