package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pborman/getopt/v2"
	"tespkg.in/kit/log"
	"tespkg.in/sledkv/pkg/api"
)

var (
	storeAddr   = ""
	tree        = ""
	registerKVs []string
	verbose     bool
	help        bool

	logOptions = log.DefaultOptions()
)

func init() {
	getopt.FlagLong(&storeAddr, "addr", 'a', "Optional, store address, use "+api.HTTPAddrEnvName+" env if not given, e.g, http://localhost:3030")
	getopt.FlagLong(&tree, "tree", 't', "Optional, tree to import into, legacy keys are written if not given")
	getopt.FlagLong(&registerKVs, "kvs", 'k',
		`Optional, register k=v value pair to the store, e.g: register a=b and c=d by using "-k a=b -k c=d"`)
	getopt.FlagLong(&verbose, "verbose", 'v', "Optional, be verbose")
	getopt.FlagLong(&help, "help", 'h', "Optional, display usage")
	getopt.SetUsage(func() {
		s := getopt.CommandLine
		printUsage(s, os.Stderr)
	})
}

func printUsage(s *getopt.Set, w io.Writer) {
	parts := []string{
		"Usage:",
		s.Program(),
		"[Options]",
		"[vars.yaml]",
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
	fmt.Fprintln(w, "Import vars into the sled store, available options are:")
	s.PrintOptions(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, `Check vars.yaml example:
$ cat vars.yaml
postgres: "localhost:5432"
mongo: "localhost:27017"`)
	fmt.Fprintln(w)
}

type kv struct {
	key   string
	value string
}

// parseKVs parses k=v pairs, the value keeps any further '='.
func parseKVs(pairs []string) []kv {
	var kvs []kv
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
			log.Warnf("invalid kv pair found: %v", pair)
			continue
		}
		kvs = append(kvs, kv{key: strings.TrimSpace(parts[0]), value: strings.TrimSpace(parts[1])})
	}
	return kvs
}

// parseVars reads a flat yaml map, keys are sorted to keep the import order stable.
func parseVars(bs []byte) ([]kv, error) {
	vars := make(map[string]string)
	if err := yaml.Unmarshal(bs, &vars); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kvs := make([]kv, 0, len(keys))
	for _, k := range keys {
		kvs = append(kvs, kv{key: k, value: vars[k]})
	}
	return kvs, nil
}

type inserter interface {
	TreeInsert(ctx context.Context, tree, key, value string) (string, error)
	Insert(ctx context.Context, key, value string) (string, error)
}

func register(ctx context.Context, cl inserter, tree string, kvs []kv) error {
	for _, p := range kvs {
		var err error
		if tree == "" {
			_, err = cl.Insert(ctx, p.key, p.value)
		} else {
			_, err = cl.TreeInsert(ctx, tree, p.key, p.value)
		}
		if err != nil {
			return fmt.Errorf("failed to register kv pair: %v=%v, err: %w", p.key, p.value, err)
		}
		log.Infof("set %v=%v pair", p.key, p.value)
	}
	return nil
}

func main() {
	getopt.Parse()
	if help {
		printUsage(getopt.CommandLine, os.Stdout)
		os.Exit(0)
	}

	// Initiate log facility.
	if verbose {
		logOptions.SetOutputLevel(log.DefaultScopeName, log.DebugLevel)
	}
	if err := log.Configure(logOptions); err != nil {
		fmt.Fprintln(os.Stderr, "initiate log failed: ", err)
		os.Exit(-1)
	}

	args := getopt.Args()
	if len(args) > 1 {
		log.Fatala("should have at most one arg to specific vars yaml filename")
		os.Exit(-1)
	}

	kvs := parseKVs(registerKVs)
	if len(args) == 1 {
		bVars, err := ioutil.ReadFile(args[0])
		if err != nil {
			log.Fatala("read vars yaml file failed: ", err)
			os.Exit(-1)
		}
		vars, err := parseVars(bVars)
		if err != nil {
			log.Fatala("unmarshal vars yaml file failed: ", err)
			os.Exit(-1)
		}
		kvs = append(kvs, vars...)
	}
	if len(kvs) == 0 {
		log.Warna("nothing to import")
		return
	}

	cl, err := api.NewClient(&api.Config{Address: storeAddr})
	if err != nil {
		log.Fatala("initiate store client failed: ", err)
		os.Exit(-1)
	}
	if err := register(context.Background(), cl, tree, kvs); err != nil {
		log.Errorf("%v", err)
		os.Exit(-1)
	}
}
