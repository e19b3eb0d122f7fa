package db

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"

	badger "github.com/dgraph-io/badger/v3"
)

type PinStateDB interface {
	GetPinStates(ctx context.Context) ([]PinState, error)
	GetPinState(ctx context.Context, pin int) (PinState, error)
	SavePinState(ctx context.Context, state PinState) error
	DeletePinState(ctx context.Context, pin int) error
	Close(ctx context.Context) error
}

func NewPinStateDB(dirname string) (PinStateDB, error) {
	opt := badger.DefaultOptions(dirname)
	opt.Logger = nil
	opt.ValueLogFileSize = 1024 * 1024 * 40

	db, err := badger.Open(opt)
	if err != nil {
		return nil, err
	}

	return &pinStateDB{
		db: db,
	}, nil
}

type pinStateDB struct {
	db *badger.DB
}

func pinKey(pin int) []byte {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, uint64(pin))
	return key
}

func (d *pinStateDB) GetPinStates(ctx context.Context) ([]PinState, error) {
	var ret []PinState
	err := d.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var state PinState

				dec := gob.NewDecoder(bytes.NewReader(v))
				if err := dec.Decode(&state); err != nil {
					return err
				}

				ret = append(ret, state)

				return nil
			})

			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return ret, nil
}

func (d *pinStateDB) GetPinState(ctx context.Context, pin int) (PinState, error) {
	var ret PinState
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pinKey(pin))
		if err != nil {
			return err
		}

		return item.Value(func(v []byte) error {
			dec := gob.NewDecoder(bytes.NewReader(v))
			return dec.Decode(&ret)
		})
	})

	if err != nil {
		return PinState{}, err
	}

	return ret, nil
}

func (d *pinStateDB) SavePinState(ctx context.Context, state PinState) error {
	buf := bytes.Buffer{}
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(state); err != nil {
		return err
	}

	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(pinKey(state.Pin), buf.Bytes())
	})
}

func (d *pinStateDB) DeletePinState(ctx context.Context, pin int) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(pinKey(pin))
	})
}

func (d *pinStateDB) Close(ctx context.Context) error {
	return d.db.Close()
}
