/*
 * Copyright (c) 2022-present Sigma-Soft, Ltd.
 * @author: Dmitry Molchanovsky
 * @author: Maxim Geraskin (refactoring)
 */

package bbolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/nspersist/nspersist/pkg/goutils/filesu"
	"github.com/nspersist/nspersist/pkg/goutils/logger"
	retrier "github.com/nspersist/nspersist/pkg/goutils/retry"
	"github.com/nspersist/nspersist/pkg/istorage"
)

// implemetation for istorage.IPlayerStorage.
// Each player owns nested bucket inside dataBucket
type playerStorage struct {
	db *bolt.DB
}

func openStorage(params ParamsType) (*playerStorage, error) {
	if err := os.MkdirAll(params.DBDir, filesu.FileMode_DefaultForDir); err != nil {
		return nil, err
	}
	dbName := filepath.Join(params.DBDir, dbFileName)
	timeout := params.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	cfg := retrier.NewConfig(lockRetryDelay, lockRetryMaxDelay)
	cfg.RetryOnlyOn = []error{bolt.ErrTimeout}
	cfg.OnError = func(attempt int, _ time.Duration, _ error) {
		logger.Verbose("players database", dbName, "is locked, attempt", attempt)
	}
	var db *bolt.DB
	ok, err := retrier.RetryFor(context.Background(), cfg, timeout, func() (err error) {
		db, err = bolt.Open(dbName, filesu.FileMode_DefaultForFile, &bolt.Options{Timeout: lockAttemptTimeout})
		return err
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseLocked, dbName)
	}

	if err := initDB(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if logger.IsVerbose() {
		logger.Verbose("players storage opened:", dbName)
	}
	return &playerStorage{db: db}, nil
}

func initDB(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(dataBucketName))
		return err
	})
}

func (s *playerStorage) Put(ctx context.Context, player string, blob []byte) (err error) {
	if err = istorage.ValidatePlayerName(player); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		dataBucket := tx.Bucket([]byte(dataBucketName))
		if dataBucket == nil {
			return ErrDataBucketNotFound
		}
		bucket, err := dataBucket.CreateBucketIfNotExists([]byte(player))
		if err != nil {
			return err
		}
		if err := bucket.Put([]byte(blobKey), blob); err != nil {
			return err
		}
		updated := make([]byte, 8)
		binary.BigEndian.PutUint64(updated, uint64(time.Now().UnixMilli()))
		return bucket.Put([]byte(updatedKey), updated)
	})
}

func (s *playerStorage) Get(ctx context.Context, player string) (blob []byte, ok bool, err error) {
	if err = istorage.ValidatePlayerName(player); err != nil {
		return nil, false, err
	}
	if err = ctx.Err(); err != nil {
		return nil, false, err
	}
	err = s.db.View(func(tx *bolt.Tx) error {
		dataBucket := tx.Bucket([]byte(dataBucketName))
		if dataBucket == nil {
			return ErrDataBucketNotFound
		}
		bucket := dataBucket.Bucket([]byte(player))
		if bucket == nil {
			return nil
		}
		ok = true
		// bolt values are valid only inside transaction
		blob = append(make([]byte, 0), bucket.Get([]byte(blobKey))...)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return blob, ok, nil
}

func (s *playerStorage) Delete(ctx context.Context, player string) (err error) {
	if err = istorage.ValidatePlayerName(player); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		dataBucket := tx.Bucket([]byte(dataBucketName))
		if dataBucket == nil {
			return ErrDataBucketNotFound
		}
		if dataBucket.Bucket([]byte(player)) == nil {
			return nil
		}
		return dataBucket.DeleteBucket([]byte(player))
	})
}

func (s *playerStorage) Read(ctx context.Context, cb istorage.ReadCallback) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bolt.Tx) error {
		dataBucket := tx.Bucket([]byte(dataBucketName))
		if dataBucket == nil {
			return ErrDataBucketNotFound
		}
		c := dataBucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if v != nil {
				// not a player bucket
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			bucket := dataBucket.Bucket(k)
			if err := cb(string(k), bucket.Get([]byte(blobKey))); err != nil {
				return err
			}
		}
		return nil
	})
}

// Returns time of the last Put for the player, zero time if player does not exist
func (s *playerStorage) Updated(player string) (updated time.Time, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		dataBucket := tx.Bucket([]byte(dataBucketName))
		if dataBucket == nil {
			return ErrDataBucketNotFound
		}
		bucket := dataBucket.Bucket([]byte(player))
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(updatedKey)); len(v) == 8 {
			updated = time.UnixMilli(int64(binary.BigEndian.Uint64(v)))
		}
		return nil
	})
	return updated, err
}

func (s *playerStorage) Close() error {
	return s.db.Close()
}
