package cli

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JudioLam9/contracts-v3/cmd/rpc"
	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/JudioLam9/contracts-v3/metrics"
	"github.com/JudioLam9/contracts-v3/store"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rootCmd = &cobra.Command{
	Use:   "contracts-v3",
	Short: "the pool withdrawal settlement software",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(rpc.SoftwareVersion)
	},
}

var (
	client, config, l = &rpc.Client{}, lib.Config{}, lib.LoggerI(nil)
	DataDir           = ""
)

func init() {
	flag.Parse()
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.PersistentFlags().StringVar(&DataDir, "data-dir", lib.DefaultDataDirPath(), "custom data directory location")
	var err lib.ErrorI
	config, err = lib.InitializeDataDirectory(DataDir, lib.NewDefaultLogger())
	if err != nil {
		log.Fatal(err.Error())
	}
	l = lib.NewLogger(lib.LoggerConfig{
		Level: config.GetLogLevel(),
	}, config.DataDirPath)
	client = rpc.NewClient(config.RPCUrl, config.RPCPort, config.AdminPort)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "start the settlement service",
	Run: func(cmd *cobra.Command, args []string) {
		Start()
	},
}

// Start() is the entrypoint of the service
func Start() {
	// initialize the metrics server
	telemetry := metrics.NewMetricsServer(config.MetricsConfig, l)
	// create a new database object from the config
	db, err := store.New(config, l)
	if err != nil {
		l.Fatal(err.Error())
	}
	// initialize the rpc server
	rpcServer := rpc.NewServer(db, config, l)
	// start the metrics server
	telemetry.Start()
	// start the rpc server
	rpcServer.Start()
	// block until a kill signal is received
	waitForKill()
	// gracefully stop the rpc server
	rpcServer.Stop()
	// gracefully stop the metrics server
	telemetry.Stop()
	// close the database
	if err = db.Close(); err != nil {
		l.Error(err.Error())
	}
	// exit
	os.Exit(0)
}

// waitForKill() blocks until a kill signal is received
func waitForKill() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGABRT)
	// block until kill signal is received
	s := <-stop
	l.Infof("Exit command %s received", s)
}

func writeToConsole(a any, err error) {
	if err != nil {
		l.Fatal(err.Error())
	}
	switch a.(type) {
	case int, uint32, uint64:
		p := message.NewPrinter(language.English)
		if _, err := p.Printf("%d\n", a); err != nil {
			l.Fatal(err.Error())
		}
	case string, *string:
		fmt.Println(a)
	default:
		s, err := lib.MarshalJSONIndentString(a)
		if err != nil {
			l.Fatal(err.Error())
		}
		fmt.Println(s)
	}
}
