// Package gcmsvc wraps gcm.Context with the ambient concerns a bare AEAD
// core intentionally leaves out: structured logging, correlation IDs for
// multi-call sessions, and an error taxonomy callers can switch on instead
// of comparing sentinels. None of this belongs in gcm itself: the core
// stays free of logging and higher-level protocol concerns, and this
// package supplies them at the layer above.
package gcmsvc

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"k8s.io/utils/ptr"

	"github.com/cybroslabs/gcmcore-go/gcm"
)

// Settings configures a Session. Key is required; a nil Algo defaults to
// gcm.AES; Logger and IVLength are optional. There is no config-file or environment-variable
// layer here, matching every settings struct in the teacher module
// (GcmKMSSettings, base.SerialStreamSettings): construction is explicit,
// done in code, by the caller.
type Settings struct {
	Logger *zap.SugaredLogger
	Key    []byte
	Algo   gcm.CipherAlgo

	// IVLength, if set, is asserted against the length of every IV passed
	// to Open. A nil value means "accept any length set_iv itself accepts".
	IVLength *int
}

// Session wraps a gcm.Context with a per-session correlation ID and
// optional structured logging. It is a thin convenience layer: every
// method maps directly onto one gcm.Context call, translating its errors
// into a grpc status code for callers that prefer a taxonomy over
// sentinel comparison.
type Session struct {
	id     uuid.UUID
	logger *zap.SugaredLogger
	ctx    gcm.Context

	ivLength *int
}

// NewSession constructs a Session and runs SetKey against the provided
// key material. The returned Session is in the same state gcm.Context
// would be in after SetKey: call Open next.
func NewSession(s Settings) (*Session, error) {
	if s.Algo == nil {
		s.Algo = gcm.AES
	}

	sess := &Session{
		id:     uuid.New(),
		logger: s.Logger,
	}
	if s.IVLength != nil {
		sess.ivLength = ptr.To(*s.IVLength)
	}

	if err := sess.ctx.SetKey(s.Key, s.Algo); err != nil {
		return nil, classify(err)
	}
	sess.logf("session %s keyed", sess.id)
	return sess, nil
}

// SetLogger swaps the logger for an already-constructed Session. A nil
// logger silences it, matching SetLogger(nil) throughout the teacher
// module's transports.
func (s *Session) SetLogger(logger *zap.SugaredLogger) {
	s.logger = logger
}

// ID returns the session's correlation ID, suitable for tagging log lines
// or error messages across the lifetime of one key/IV pairing.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Open derives J0 from iv via gcm.Context.SetIV. Call it once per nonce;
// a Session may be reused for many Open calls under the same key.
func (s *Session) Open(iv []byte) error {
	if s.ivLength != nil && len(iv) != *s.ivLength {
		return status.Errorf(codes.InvalidArgument, "session %s: IV length %d, want %d", s.id, len(iv), *s.ivLength)
	}
	if err := s.ctx.SetIV(iv); err != nil {
		s.dlogf("session %s: SetIV failed: %v", s.id, err)
		return classify(err)
	}
	s.dlogf("session %s opened with %d-byte IV", s.id, len(iv))
	return nil
}

// AAD absorbs associated data.
func (s *Session) AAD(data []byte) error {
	if err := s.ctx.AAD(data); err != nil {
		return classify(err)
	}
	return nil
}

// Encrypt encrypts src into dst.
func (s *Session) Encrypt(dst, src []byte) error {
	if err := s.ctx.Encrypt(dst, src); err != nil {
		return classify(err)
	}
	return nil
}

// Decrypt decrypts src into dst. Per gcm.Context's contract, the plaintext
// in dst is available to the caller before Tag is checked; callers that
// need verified-before-use plaintext must withhold it until Tag matches.
func (s *Session) Decrypt(dst, src []byte) error {
	if err := s.ctx.Decrypt(dst, src); err != nil {
		return classify(err)
	}
	return nil
}

// Tag finalizes the session and returns the 128-bit authentication tag.
func (s *Session) Tag() ([16]byte, error) {
	tag, err := s.ctx.Tag()
	if err != nil {
		return tag, classify(err)
	}
	s.dlogf("session %s finalized, tag %x", s.id, tag)
	return tag, nil
}

// Close wipes key material. The Session is unusable afterward except via
// a fresh NewSession.
func (s *Session) Close() {
	s.logf("session %s closed", s.id)
	s.ctx.Wipe()
}

func (s *Session) logf(format string, v ...any) {
	if s.logger != nil {
		s.logger.Infof(format, v...)
	}
}

func (s *Session) dlogf(format string, v ...any) {
	if s.logger != nil {
		s.logger.Debugf(format, v...)
	}
}

// classify maps gcm's sentinel errors onto grpc status codes, the same
// codes.Code(...) pattern gcmkms.go applies to its RPC error field, minus
// the RPC: every value here is constructed locally, never decoded off a
// wire.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gcm.ErrCipherKey), errors.Is(err, gcm.ErrBlockSize):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, gcm.ErrEmptyIV), errors.Is(err, gcm.ErrLengthMismatch):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, gcm.ErrState):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Unknown, fmt.Sprintf("gcmsvc: %v", err))
	}
}
