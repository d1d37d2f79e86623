// SPDX-License-Identifier: Apache-2.0

package entity

import "github.com/cockroachdb/errors"

var (
	// ErrModelNotLoaded means the sequence labeler prerequisite is missing.
	// It is fatal: nothing is processed without a model.
	ErrModelNotLoaded = errors.New("entity model not loaded")

	// ErrEmptyText means a document yielded no text to scan.
	ErrEmptyText = errors.New("document has no text")

	// ErrUnreadable means the document's text could not be obtained.
	ErrUnreadable = errors.New("document text unreadable")

	// ErrUnsupportedFormat means no registered TextSource accepts the document.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrInference marks failures raised by the injected labeler.
	ErrInference = errors.New("inference failed")

	// ErrPersist marks failures raised by the result sink.
	ErrPersist = errors.New("persisting result failed")
)
