// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/auctionsync/debounce"
)

// editors write a file in several steps
const reloadDelay = 500 * time.Millisecond

// fileWatcher - re-read the configuration file when it changes
type fileWatcher struct {
	log      *logger.L
	watcher  *fsnotify.Watcher
	filePath string
	reload   *debounce.Timer
}

func newFileWatcher(log *logger.L, targetFile string, reload func(*Configuration)) (*fileWatcher, error) {
	filePath, err := filepath.Abs(filepath.Clean(targetFile))
	if nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	// watch the directory so that a replaced file is still seen
	if err := watcher.Add(filepath.Dir(filePath)); nil != err {
		watcher.Close()
		return nil, err
	}

	w := &fileWatcher{
		log:      log,
		watcher:  watcher,
		filePath: filePath,
	}
	w.reload = debounce.New(reloadDelay, func() {
		conf, err := getConfiguration(w.filePath)
		if nil != err {
			w.log.Errorf("failed to read configuration from: %s  error: %s", w.filePath, err)
			return
		}
		w.log.Info("configuration reloaded")
		reload(conf)
	})
	return w, nil
}

// Run - background.Process
func (w *fileWatcher) Run(args interface{}, shutdown <-chan struct{}) {
	w.log.Infof("watching: %s", w.filePath)

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Base(event.Name) != filepath.Base(w.filePath) {
				continue
			}
			w.log.Debugf("file event: %v", event)
			if watcherEventFileRemove(event) {
				w.log.Warnf("file: %s removed", w.filePath)
				continue
			}
			if watcherEventFileChange(event) {
				w.reload.Reset()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			w.log.Errorf("watcher error: %s", err)
		}
	}

	w.reload.Cancel()
	w.watcher.Close()
	w.log.Info("stopped")
}

func watcherEventFileRemove(event fsnotify.Event) bool {
	return event.Op&fsnotify.Remove == fsnotify.Remove ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}

func watcherEventFileChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Chmod == fsnotify.Chmod
}
