package goifd

import (
	"github.com/datar-psa/goifd/api"
)

type Completer = api.Completer
type CompletionRequest = api.CompletionRequest
type Embedder = api.Embedder
type ModerationProvider = api.ModerationProvider
type ModerationCategory = api.ModerationCategory
type ModerationResult = api.ModerationResult

type Pair = api.Pair
type ScoredPair = api.ScoredPair
type Tier = api.Tier
type ValueCategory = api.ValueCategory
type Phase = api.Phase
type ProgressEvent = api.ProgressEvent
type ProgressReporter = api.ProgressReporter
type ProgressFunc = api.ProgressFunc

var ModerationCategories = api.ModerationCategories
