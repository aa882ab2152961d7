package config

import (
	"time"

	libconfig "github.com/shouni/go-storybook-kit/pkg/config"

	"github.com/shouni/go-utils/envutil"
)

// EnvReplicateToken は Replicate の API トークンを読む環境変数名です。
const EnvReplicateToken = "REPLICATE_API_TOKEN"

// Config はアプリケーション全体の環境設定（API トークンや既定のパス）を保持する構造体なのだ。
type Config struct {
	ReplicateToken string
	StandardModel  string
	FastModel      string
	StoryFile      string
	OutputDir      string
	CatalogFile    string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		ReplicateToken: envutil.GetEnv(EnvReplicateToken, ""),
		StandardModel:  envutil.GetEnv("STANDARD_MODEL", libconfig.DefaultStandardModel),
		FastModel:      envutil.GetEnv("FAST_MODEL", libconfig.DefaultFastModel),
		StoryFile:      envutil.GetEnv("STORY_FILE", libconfig.DefaultStoryFile),
		OutputDir:      envutil.GetEnv("OUTPUT_DIR", libconfig.DefaultOutputDir),
		CatalogFile:    envutil.GetEnv("CATALOG_FILE", ""),
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 対象ページ
	Pages []int // --pages
	All   bool  // --all

	// 生成モデル
	Fast bool // --fast

	// 入出力
	StoryFile    string // --story
	OutputDir    string // --output-dir
	ReferenceDir string // --reference-dir
	CatalogFile  string // --catalog

	// 実行制御
	Interval    time.Duration // --interval
	HTTPTimeout time.Duration // --http-timeout
	DryRun      bool          // --dry-run
}

// StoryPath はフラグ・環境変数の順で決まったストーリー文書のパスを返します。
func (c *Config) StoryPath() string {
	if c.Options.StoryFile != "" {
		return c.Options.StoryFile
	}
	return c.StoryFile
}

// IllustrationDir はフラグ・環境変数の順で決まった出力ディレクトリを返します。
func (c *Config) IllustrationDir() string {
	if c.Options.OutputDir != "" {
		return c.Options.OutputDir
	}
	return c.OutputDir
}

// CatalogPath はフラグ・環境変数の順で決まったカタログファイルのパスを返します。空なら埋め込みカタログを使います。
func (c *Config) CatalogPath() string {
	if c.Options.CatalogFile != "" {
		return c.Options.CatalogFile
	}
	return c.CatalogFile
}

// LibraryConfig はライブラリ側の Config に環境変数とフラグの値を反映したものを返します。
func (c *Config) LibraryConfig() libconfig.Config {
	cfg := libconfig.DefaultConfig()
	if c.StandardModel != "" {
		cfg.StandardModel = c.StandardModel
	}
	if c.FastModel != "" {
		cfg.FastModel = c.FastModel
	}
	if c.Options.Interval > 0 {
		cfg.RateInterval = c.Options.Interval
	}
	if c.Options.HTTPTimeout > 0 {
		cfg.RequestTimeout = c.Options.HTTPTimeout
	}
	return cfg
}
