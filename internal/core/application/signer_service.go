package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-signer/internal/core/domain"
	"github.com/tdex-network/tdex-signer/internal/core/ports"
	"github.com/tdex-network/tdex-signer/pkg/wallet"
	"golang.org/x/sync/singleflight"
)

// SaveRetryInterval is the time waited before merging a new key record
// again after the key store was updated by another process.
var SaveRetryInterval = 10 * time.Millisecond

// SignerService serves the requests of the origins: it lazily derives the
// signing key bound to an address, gating its creation behind the consent
// of the user, and signs messages with it.
type SignerService interface {
	HandleRequest(ctx context.Context, origin string, req Request) (interface{}, error)
	PersonalSign(ctx context.Context, origin, message, address string) (string, error)
}

type signerService struct {
	keyStore ports.KeyStore
	entropy  ports.EntropyProvider
	dialog   ports.ConsentDialog
	path     wallet.DerivationPath

	consentGroup *singleflight.Group
	flowsLock    sync.Mutex
	flows        map[string]*pendingFlow
	storeLock    sync.Mutex
}

// pendingFlow holds the context of a consent flow and counts the callers
// waiting for its outcome.
type pendingFlow struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func NewSignerService(
	keyStore ports.KeyStore,
	entropy ports.EntropyProvider,
	dialog ports.ConsentDialog,
	path wallet.DerivationPath,
) (SignerService, error) {
	svc, err := newSignerService(keyStore, entropy, dialog, path)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func newSignerService(
	keyStore ports.KeyStore,
	entropy ports.EntropyProvider,
	dialog ports.ConsentDialog,
	path wallet.DerivationPath,
) (*signerService, error) {
	if keyStore == nil {
		return nil, ErrNullKeyStore
	}
	if entropy == nil {
		return nil, ErrNullEntropyProvider
	}
	if dialog == nil {
		return nil, ErrNullConsentDialog
	}
	if len(path) <= 0 {
		return nil, wallet.ErrNullDerivationPath
	}

	return &signerService{
		keyStore:     keyStore,
		entropy:      entropy,
		dialog:       dialog,
		path:         path,
		consentGroup: &singleflight.Group{},
		flows:        make(map[string]*pendingFlow),
	}, nil
}

// HandleRequest routes the request to the handler of its method.
func (s *signerService) HandleRequest(
	ctx context.Context, origin string, req Request,
) (interface{}, error) {
	switch req.Method {
	case MethodPersonalSign:
		params, err := parsePersonalSignParams(req.Params)
		if err != nil {
			return nil, err
		}
		return s.PersonalSign(ctx, origin, params.Message, params.Address)
	default:
		log.WithFields(log.Fields{
			"origin": origin,
			"method": req.Method,
		}).Debug("method not found")
		return nil, ErrMethodNotFound
	}
}

// PersonalSign signs the message with the key bound to the address,
// creating it if the user consents.
func (s *signerService) PersonalSign(
	ctx context.Context, origin, message, address string,
) (string, error) {
	if len(address) <= 0 {
		return "", ErrInvalidParams
	}

	logger := log.WithFields(log.Fields{
		"request": uuid.New().String(),
		"origin":  origin,
		"address": address,
	})
	logger.Debug("personal_sign")

	record, err := s.getOrCreateKey(ctx, logger, origin, address)
	if err != nil {
		return "", err
	}

	prvkey, err := record.PrivKey()
	if err != nil {
		return "", fmt.Errorf("failed to decode key for address %s: %w", address, err)
	}

	signature, err := wallet.SignMessage(wallet.SignMessageOpts{
		Message:    message,
		PrivateKey: prvkey,
	})
	if err != nil {
		return "", err
	}

	logger.Debug("message signed")
	return signature, nil
}

func (s *signerService) getOrCreateKey(
	ctx context.Context, logger *log.Entry, origin, address string,
) (*domain.KeyRecord, error) {
	mapping, err := s.keyStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load key mapping: %w", err)
	}

	if record, ok := mapping.Get(address); ok {
		if err := record.Validate(); err != nil {
			return nil, fmt.Errorf(
				"invalid key record stored for address %s: %w", address, err,
			)
		}
		flow := domain.NewConsentFlow(origin, address)
		if err := flow.SkipConsent(); err != nil {
			return nil, err
		}
		logger.WithField("state", flow.State).Debug("consent skipped")
		return record, nil
	}

	for {
		record, err := s.awaitConsentFlow(ctx, logger, origin, address)
		// A flow canceled because all of its callers left may still be
		// pending when a new caller joins it: a live caller starts over.
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			continue
		}
		return record, err
	}
}

// awaitConsentFlow joins the consent flow for the origin and address, or
// starts it if none is pending. Concurrent first-time requests share one
// dialog. The flow outlives any single caller and is canceled only once all
// of them are gone.
func (s *signerService) awaitConsentFlow(
	ctx context.Context, logger *log.Entry, origin, address string,
) (*domain.KeyRecord, error) {
	key := origin + "|" + address
	flowCtx := s.joinConsentFlow(ctx, key)
	defer s.leaveConsentFlow(key)

	resCh := s.consentGroup.DoChan(key, func() (interface{}, error) {
		return s.runConsentFlow(flowCtx, logger, origin, address)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resCh:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Debug("joined pending consent flow")
		}
		record := res.Val.(domain.KeyRecord)
		return &record, nil
	}
}

func (s *signerService) joinConsentFlow(
	ctx context.Context, key string,
) context.Context {
	s.flowsLock.Lock()
	defer s.flowsLock.Unlock()

	flow, ok := s.flows[key]
	if !ok {
		flowCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		flow = &pendingFlow{ctx: flowCtx, cancel: cancel}
		s.flows[key] = flow
	}
	flow.waiters++
	return flow.ctx
}

func (s *signerService) leaveConsentFlow(key string) {
	s.flowsLock.Lock()
	defer s.flowsLock.Unlock()

	flow, ok := s.flows[key]
	if !ok {
		return
	}
	flow.waiters--
	if flow.waiters <= 0 {
		flow.cancel()
		delete(s.flows, key)
	}
}

func (s *signerService) runConsentFlow(
	ctx context.Context, logger *log.Entry, origin, address string,
) (domain.KeyRecord, error) {
	flow := domain.NewConsentFlow(origin, address)

	content, err := flow.Prompt()
	if err != nil {
		return domain.KeyRecord{}, err
	}
	logger.WithField("state", flow.State).Info("asking user consent")

	approved, err := s.dialog.Confirm(ctx, content)
	if err != nil {
		return domain.KeyRecord{}, fmt.Errorf("consent dialog failed: %w", err)
	}
	if err := flow.Resolve(approved); err != nil {
		return domain.KeyRecord{}, err
	}
	logger.WithField("state", flow.State).Info("consent resolved")

	if !approved {
		return domain.KeyRecord{}, ErrUserRejected
	}

	record, err := s.entropy.GetBIP32Entropy(ctx, s.path, domain.CurveSecp256k1)
	if err != nil {
		return domain.KeyRecord{}, fmt.Errorf("failed to derive key: %w", err)
	}

	stored, err := s.persistKey(ctx, logger, address, *record)
	if err != nil {
		return domain.KeyRecord{}, err
	}

	if err := flow.Complete(); err != nil {
		return domain.KeyRecord{}, err
	}
	logger.WithField("state", flow.State).Info("key stored")

	return *stored, nil
}

// persistKey adds the record to a freshly loaded mapping and saves it.
// Writers of this process are serialized, version conflicts can only be
// caused by other processes sharing the store: in that case the mapping is
// reloaded and the record merged again until ctx is done. If a record for
// the address is already stored, that one wins.
func (s *signerService) persistKey(
	ctx context.Context, logger *log.Entry, address string, record domain.KeyRecord,
) (*domain.KeyRecord, error) {
	s.storeLock.Lock()
	defer s.storeLock.Unlock()

	for attempt := 1; ; attempt++ {
		mapping, err := s.keyStore.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load key mapping: %w", err)
		}

		if existing, ok := mapping.Get(address); ok {
			logger.Debug("key already stored by concurrent request")
			return existing, nil
		}
		if err := mapping.Add(address, record); err != nil {
			return nil, err
		}

		err = s.keyStore.Save(ctx, mapping)
		if err == nil {
			return &record, nil
		}
		if !errors.Is(err, ports.ErrConcurrentUpdate) {
			return nil, fmt.Errorf("failed to save key mapping: %w", err)
		}

		logger.WithField("attempt", attempt).Debug(
			"key mapping updated concurrently, merging again",
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to save key mapping: %w", ctx.Err())
		case <-time.After(SaveRetryInterval):
		}
	}
}
