package sample

import "github.com/sneller-labs/mindexer/driver"

func srcNS(db, coll string) driver.Namespace {
	return driver.Namespace{DB: db, Collection: coll}
}
