// Command kiosk browses the portal through the offline cache interceptor.
// On first run it installs the offline manifest and activates the current
// cache generation; afterwards cached pages keep rendering with the network
// down. Usage: kiosk [path]
package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/kisanhq/kisan/core"
	"github.com/kisanhq/kisan/core/offline"
	sqlitecache "github.com/kisanhq/kisan/storage/offline/sqlite"
)

func main() {
	logger := log.New(os.Stderr, "KIOSK : ", log.LstdFlags)

	db, err := sqlitecache.Open(core.Conf.GetString("cacheDBPath"))
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()

	interceptor, err := offline.NewInterceptor(offline.Options{Store: sqlitecache.NewStore(db)})
	if err != nil {
		logger.Fatal(err)
	}

	ctx := context.Background()
	if err := interceptor.Install(ctx); err != nil {
		// an incomplete offline set is never committed; keep serving
		// whatever a previous install left behind
		logger.Printf("install failed, relying on existing cache: %v", err)
	} else if err := interceptor.Activate(); err != nil {
		logger.Fatal(err)
	}

	path := "/"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	client := &http.Client{Transport: interceptor}
	resp, err := client.Get(core.Conf.GetString("portalOrigin") + path)
	if err != nil {
		logger.Fatal(err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
		logger.Fatal(err)
	}
}
