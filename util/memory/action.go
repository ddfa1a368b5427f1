// Copyright 2025 vexec Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package memory

import (
	"sync"
	"sync/atomic"

	"github.com/vexecdb/vexec/util/logutil"
	"go.uber.org/zap"
)

// ActionOnExceed is the action taken when memory usage exceeds the
// memory quota.
// NOTE: All the implementors should be thread-safe.
type ActionOnExceed interface {
	// Action will be called when memory usage exceeds memory quota by the
	// corresponding Tracker.
	Action(t *Tracker)
	// SetFallback sets a fallback action which will be triggered if itself has
	// already been triggered.
	SetFallback(a ActionOnExceed)
	// GetFallback gets the fallback action of the Action.
	GetFallback() ActionOnExceed
	// GetPriority gets the priority of the Action.
	GetPriority() int64
	// SetFinished sets the finished state of the Action.
	SetFinished()
	// IsFinished returns the finished state of the Action.
	IsFinished() bool
}

// BaseOOMAction manages the fallback action for all Actions.
type BaseOOMAction struct {
	fallbackAction ActionOnExceed
	finished       int32
}

// SetFallback sets a fallback action which will be triggered if itself has
// already been triggered.
func (b *BaseOOMAction) SetFallback(a ActionOnExceed) {
	b.fallbackAction = a
}

// SetFinished sets the finished state of the Action.
func (b *BaseOOMAction) SetFinished() {
	atomic.StoreInt32(&b.finished, 1)
}

// IsFinished returns the finished state of the Action.
func (b *BaseOOMAction) IsFinished() bool {
	return atomic.LoadInt32(&b.finished) == 1
}

// GetFallback gets the fallback action, skipping finished ones.
func (b *BaseOOMAction) GetFallback() ActionOnExceed {
	for b.fallbackAction != nil && b.fallbackAction.IsFinished() {
		b.SetFallback(b.fallbackAction.GetFallback())
	}
	return b.fallbackAction
}

// Default OOM Action priority.
const (
	DefPanicPriority = iota
	DefLogPriority
)

// LogOnExceed logs a warning only once when memory usage exceeds the
// memory quota.
type LogOnExceed struct {
	logHook func(label int)
	BaseOOMAction
	mutex sync.Mutex
	acted bool
}

// SetLogHook sets a hook for LogOnExceed.
func (a *LogOnExceed) SetLogHook(hook func(label int)) {
	a.logHook = hook
}

// Action logs a warning only once when memory usage exceeds the memory
// quota.
func (a *LogOnExceed) Action(t *Tracker) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if !a.acted {
		a.acted = true
		if a.logHook == nil {
			logutil.BgLogger().Warn("memory exceeds quota",
				zap.Int("label", t.Label()),
				zap.Int64("consumed", t.BytesConsumed()),
				zap.String("quota", FormatBytes(t.GetBytesLimit())),
				zap.String("trackerTree", t.String()))
			return
		}
		a.logHook(t.Label())
	}
}

// GetPriority gets the priority of the Action.
func (*LogOnExceed) GetPriority() int64 {
	return DefLogPriority
}

// PanicOnExceed panics when memory usage exceeds the memory quota.
type PanicOnExceed struct {
	logHook func(label int)
	BaseOOMAction
	mutex sync.Mutex
	acted bool
}

// SetLogHook sets a hook for PanicOnExceed.
func (a *PanicOnExceed) SetLogHook(hook func(label int)) {
	a.logHook = hook
}

// Action panics when memory usage exceeds the memory quota.
func (a *PanicOnExceed) Action(t *Tracker) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if !a.acted {
		if a.logHook == nil {
			logutil.BgLogger().Warn("memory exceeds quota",
				zap.Int("label", t.Label()),
				zap.Int64("consumed", t.BytesConsumed()),
				zap.String("quota", FormatBytes(t.GetBytesLimit())))
		} else {
			a.logHook(t.Label())
		}
	}
	a.acted = true
	panic(PanicMemoryExceed)
}

// GetPriority gets the priority of the Action.
func (*PanicOnExceed) GetPriority() int64 {
	return DefPanicPriority
}

// PanicMemoryExceed represents the panic message when out of memory
// quota.
const PanicMemoryExceed string = "Out Of Memory Quota!"
