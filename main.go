package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jonazpiazu/mrdja/internal/config"
	"github.com/jonazpiazu/mrdja/internal/dataset"
	"github.com/jonazpiazu/mrdja/internal/logging"
	"github.com/jonazpiazu/mrdja/internal/ransac"
	"github.com/jonazpiazu/mrdja/internal/server"
	"github.com/jonazpiazu/mrdja/internal/server/routes"
	"github.com/jonazpiazu/mrdja/internal/version"
)

// configEnv 指定配置文件路径的环境变量，优先级低于 -config。
const configEnv = "MRDJA_CONFIG"

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	dataRoot    string
	scenes      []string
	list        bool
	checkOnly   bool
	estimate    bool
	inlierRatio float64
	probability float64
	sampleSize  int
	serve       bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	// 估算迭代次数是纯计算，不依赖配置与缓存目录。
	if opts.estimate {
		return runEstimate(opts)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global, stdErr)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["scenes"] = cfg.SceneNames()
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	catalog := dataset.Catalog(cfg.Catalog())
	if opts.list {
		printCatalog(catalog)
		return 0
	}

	// 缓存根目录只在入口解析一次，之后显式传入 Provisioner。
	dataRoot, source, err := config.ResolveDataRoot(opts.dataRoot, cfg.Global, os.Getenv)
	if err != nil {
		fmt.Fprintf(stdErr, "解析缓存目录失败: %v\n", err)
		return 1
	}
	if source == config.DataRootFromDefault {
		logger.WithFields(logging.BaseFields("data_root", opts.configPath)).
			WithField("data_root", dataRoot).
			Debug("使用默认缓存目录")
	}

	provisioner, err := dataset.New(dataset.Options{
		DataRoot: dataRoot,
		Catalog:  catalog,
		Client:   server.NewDownloadClient(cfg),
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(stdErr, "初始化数据集目录失败: %v\n", err)
		return 1
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["scenes"] = cfg.SceneNames()
	fields["data_root"] = dataRoot
	fields["data_root_source"] = string(source)
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if len(opts.scenes) > 0 {
		return runProvision(context.Background(), provisioner, opts.scenes)
	}
	if !opts.serve {
		return 0
	}

	if err := startHTTPServer(cfg, provisioner, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// runProvision 依次准备每个场景，并按行输出文件路径。
func runProvision(ctx context.Context, provisioner *dataset.Provisioner, scenes []string) int {
	for _, scene := range scenes {
		paths, err := provisioner.Provision(ctx, scene)
		if err != nil {
			fmt.Fprintf(stdErr, "准备场景 %s 失败: %v\n", scene, err)
			return 1
		}
		for _, path := range paths {
			fmt.Fprintln(stdOut, path)
		}
	}
	return 0
}

func runEstimate(opts cliOptions) int {
	bound, err := ransac.EstimateIterationsForSampleSize(opts.inlierRatio, opts.probability, opts.sampleSize)
	if err != nil {
		fmt.Fprintf(stdErr, "估算失败: %v\n", err)
		return 1
	}
	rounded, err := ransac.MinIterations(opts.inlierRatio, opts.probability, opts.sampleSize)
	if err != nil {
		fmt.Fprintf(stdErr, "估算失败: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdOut, "iterations: %v\nmin_iterations: %d\n", bound, rounded)
	return 0
}

func printCatalog(catalog dataset.Catalog) {
	for _, name := range catalog.Scenes() {
		urls, _ := catalog.Lookup(name)
		kind, _ := catalog.Kind(name)
		fmt.Fprintf(stdOut, "%s\t%s\t%d\n", name, kind, len(urls))
	}
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
// 未指定任何操作时返回错误，由 main 以退出码 2 结束。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("mrdja", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		opts       cliOptions
		configFlag string
		sceneFlag  string
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（可被 "+configEnv+" 覆盖，缺省使用内置目录）")
	fs.StringVar(&opts.dataRoot, "data-root", "", "缓存根目录（优先于 "+config.DataRootEnv+"）")
	fs.StringVar(&sceneFlag, "scene", "", "需要准备的场景名，多个场景用逗号分隔")
	fs.BoolVar(&opts.list, "list", false, "列出目录中的场景")
	fs.BoolVar(&opts.checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&opts.estimate, "estimate", false, "估算 RANSAC 迭代次数")
	fs.Float64Var(&opts.inlierRatio, "inlier-ratio", 0.5, "内点比例，取值 (0,1)")
	fs.Float64Var(&opts.probability, "probability", 0.99, "期望成功概率，取值 (0,1)")
	fs.IntVar(&opts.sampleSize, "sample-size", ransac.DefaultSampleSize, "最小样本点数")
	fs.BoolVar(&opts.serve, "serve", false, "启动 HTTP 服务")
	fs.BoolVar(&opts.showVersion, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}
	if fs.NArg() > 0 {
		return cliOptions{}, fmt.Errorf("解析参数失败: 多余的参数 %q", fs.Args())
	}

	opts.configPath = os.Getenv(configEnv)
	if configFlag != "" {
		opts.configPath = configFlag
	}
	opts.scenes = splitScenes(sceneFlag)

	if !opts.showVersion && !opts.estimate && !opts.checkOnly && !opts.list && !opts.serve && len(opts.scenes) == 0 {
		return cliOptions{}, errors.New("未指定操作: 需要 -scene、-list、-estimate、-check-config、-serve 或 -version 之一")
	}
	return opts, nil
}

func splitScenes(raw string) []string {
	var scenes []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			scenes = append(scenes, trimmed)
		}
	}
	return scenes
}

func startHTTPServer(cfg *config.Config, provisioner *dataset.Provisioner, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{Logger: logger})
	if err != nil {
		return err
	}
	routes.RegisterSceneRoutes(app, provisioner, logger)
	routes.RegisterRansacRoutes(app)
	server.RegisterFallback(app, logger)

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
