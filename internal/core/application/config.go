package application

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-signer/internal/core/ports"
	"github.com/tdex-network/tdex-signer/internal/infrastructure/entropy"
	dbbadger "github.com/tdex-network/tdex-signer/internal/infrastructure/storage/db/badger"
	dbbolt "github.com/tdex-network/tdex-signer/internal/infrastructure/storage/db/bolt"
	"github.com/tdex-network/tdex-signer/internal/infrastructure/storage/db/inmemory"
	dbredis "github.com/tdex-network/tdex-signer/internal/infrastructure/storage/db/redis"
	"github.com/tdex-network/tdex-signer/pkg/wallet"
)

const (
	DBInMemory = "inmemory"
	DBBadger   = "badger"
	DBBolt     = "bolt"
	DBRedis    = "redis"
)

var (
	SupportedDBType = map[string]struct{}{
		DBInMemory: {},
		DBBadger:   {},
		DBBolt:     {},
		DBRedis:    {},
	}
)

// Config wires the signer service with the adapters selected for the
// deployment. DBConfig is the base datadir for badger and bolt and the server
// address for redis, it's ignored for inmemory.
type Config struct {
	DBType         string
	DBConfig       interface{}
	Wallet         *wallet.Wallet
	ConsentDialog  ports.ConsentDialog
	DerivationPath wallet.DerivationPath

	keyStore ports.KeyStore
	entropy  ports.EntropyProvider
	signer   SignerService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("db type %s not supported", c.DBType)
	}
	if c.ConsentDialog == nil {
		return ErrNullConsentDialog
	}
	if len(c.DerivationPath) <= 0 {
		return wallet.ErrNullDerivationPath
	}
	if _, err := c.entropyProvider(); err != nil {
		return err
	}
	if _, err := c.keyStoreService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) KeyStore() ports.KeyStore {
	svc, _ := c.keyStoreService()
	return svc
}

func (c *Config) SignerService() SignerService {
	svc, _ := c.signerService()
	return svc
}

func (c *Config) keyStoreService() (ports.KeyStore, error) {
	if c.keyStore == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			keyStore, err := dbbadger.NewKeyStore(datadir, log.StandardLogger())
			if err != nil {
				return nil, err
			}
			c.keyStore = keyStore
		case DBBolt:
			datadir, _ := c.DBConfig.(string)
			keyStore, err := dbbolt.NewKeyStore(datadir)
			if err != nil {
				return nil, err
			}
			c.keyStore = keyStore
		case DBRedis:
			addr, _ := c.DBConfig.(string)
			keyStore, err := dbredis.NewKeyStore(addr, dbredis.DefaultNamespace)
			if err != nil {
				return nil, err
			}
			c.keyStore = keyStore
		default:
			c.keyStore = inmemory.NewKeyStore()
		}
	}
	return c.keyStore, nil
}

func (c *Config) entropyProvider() (ports.EntropyProvider, error) {
	if c.entropy == nil {
		provider, err := entropy.NewSeedProvider(c.Wallet)
		if err != nil {
			return nil, err
		}
		c.entropy = provider
	}
	return c.entropy, nil
}

func (c *Config) signerService() (SignerService, error) {
	if c.signer == nil {
		keyStore, err := c.keyStoreService()
		if err != nil {
			return nil, err
		}
		provider, err := c.entropyProvider()
		if err != nil {
			return nil, err
		}
		signer, err := NewSignerService(
			keyStore, provider, c.ConsentDialog, c.DerivationPath,
		)
		if err != nil {
			return nil, err
		}
		c.signer = signer
	}
	return c.signer, nil
}
