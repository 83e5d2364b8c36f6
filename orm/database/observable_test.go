package database

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hatlonely/ormx/log/logger"
	"github.com/hatlonely/ormx/ref"
)

func sqliteTypeOptions() *ref.TypeOptions {
	return &ref.TypeOptions{
		Namespace: "github.com/hatlonely/ormx/orm/database",
		Type:      "SQL",
		Options: &SQLOptions{
			Driver:   "sqlite3",
			Database: ":memory:",
			MinSize:  1,
			MaxSize:  1,
		},
	}
}

func TestNewObservableDatabaseWithOptions(t *testing.T) {
	Convey("NewObservableDatabaseWithOptions", t, func() {
		Convey("创建基本 ObservableDatabase", func() {
			obs, err := NewObservableDatabaseWithOptions(&ObservableDatabaseOptions{
				Database:      sqliteTypeOptions(),
				Name:          "test_database_basic",
				EnableMetrics: true,
				EnableLogging: false,
			})
			So(err, ShouldBeNil)
			So(obs, ShouldNotBeNil)
			So(obs.metrics, ShouldNotBeNil)
			defer obs.Close()
		})

		Convey("创建带 Logger 的 ObservableDatabase", func() {
			obs, err := NewObservableDatabaseWithOptions(&ObservableDatabaseOptions{
				Database: sqliteTypeOptions(),
				Logger: &ref.TypeOptions{
					Namespace: "github.com/hatlonely/ormx/log/logger",
					Type:      "SLog",
					Options:   &logger.SLogOptions{Level: "debug", Format: "text"},
				},
				Name:          "test_database_with_logger",
				EnableMetrics: false,
				EnableLogging: true,
			})
			So(err, ShouldBeNil)
			So(obs, ShouldNotBeNil)
			So(obs.logger, ShouldNotBeNil)
			defer obs.Close()
		})

		Convey("options 为 nil 时返回错误", func() {
			obs, err := NewObservableDatabaseWithOptions(nil)
			So(err, ShouldNotBeNil)
			So(obs, ShouldBeNil)
		})

		Convey("缺少 database 配置时返回错误", func() {
			obs, err := NewObservableDatabaseWithOptions(&ObservableDatabaseOptions{})
			So(err, ShouldNotBeNil)
			So(obs, ShouldBeNil)
		})

		Convey("底层 database 创建失败时返回错误", func() {
			obs, err := NewObservableDatabaseWithOptions(&ObservableDatabaseOptions{
				Database: &ref.TypeOptions{
					Namespace: "github.com/hatlonely/ormx/orm/database",
					Type:      "NonExistentDatabase",
				},
			})
			So(err, ShouldNotBeNil)
			So(obs, ShouldBeNil)
		})
	})
}

func TestObservableDatabaseOperations(t *testing.T) {
	Convey("ObservableDatabase 代理底层操作", t, func() {
		obs, err := NewObservableDatabaseWithOptions(&ObservableDatabaseOptions{
			Database:      sqliteTypeOptions(),
			Name:          "test_database_ops",
			EnableMetrics: false,
			EnableLogging: false,
		})
		So(err, ShouldBeNil)
		defer obs.Close()

		ctx := context.Background()
		_, err = obs.Execute(ctx, "create table `User` (`id` varchar(50) primary key, `name` varchar(100))", nil)
		So(err, ShouldBeNil)

		Convey("Execute 返回受影响行数", func() {
			affected, err := obs.Execute(ctx, "insert into `User` (`id`, `name`) values(?,?)", []any{"1", "John"})
			So(err, ShouldBeNil)
			So(affected, ShouldEqual, 1)
		})

		Convey("Select 返回查询结果", func() {
			obs.Execute(ctx, "insert into `User` (`id`, `name`) values(?,?)", []any{"2", "Jane"})

			rows, err := obs.Select(ctx, "select `id`, `name` from `User` where `id` = ?", []any{"2"}, 1)
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 1)
			So(rows[0].Get("name"), ShouldEqual, "Jane")
		})

		Convey("Logger 透传底层网关的日志器", func() {
			So(obs.Logger(), ShouldNotBeNil)
		})

		Convey("错误原样透传", func() {
			_, err := obs.Select(ctx, "select * from `NoSuchTable`", nil, 0)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestObservableDatabaseObservation(t *testing.T) {
	Convey("ObservableDatabase 观测功能", t, func() {
		Convey("禁用所有观测功能", func() {
			obs, err := NewObservableDatabaseWithOptions(&ObservableDatabaseOptions{
				Database:      sqliteTypeOptions(),
				Name:          "test_database_no_observe",
				EnableMetrics: false,
				EnableLogging: false,
				EnableTracing: false,
			})
			So(err, ShouldBeNil)
			defer obs.Close()

			So(obs.metrics, ShouldBeNil)
			So(obs.logger, ShouldBeNil)

			ctx := context.Background()
			_, err = obs.Execute(ctx, "create table `User` (`id` varchar(50) primary key)", nil)
			So(err, ShouldBeNil)
		})

		Convey("只启用指标收集", func() {
			obs, err := NewObservableDatabaseWithOptions(&ObservableDatabaseOptions{
				Database:      sqliteTypeOptions(),
				Name:          "metrics_only_database",
				EnableMetrics: true,
				EnableLogging: false,
			})
			So(err, ShouldBeNil)
			defer obs.Close()

			So(obs.metrics, ShouldNotBeNil)
			So(obs.logger, ShouldBeNil)

			ctx := context.Background()
			_, err = obs.Execute(ctx, "create table `User` (`id` varchar(50) primary key, `name` varchar(100))", nil)
			So(err, ShouldBeNil)
			obs.Execute(ctx, "insert into `User` (`id`, `name`) values(?,?)", []any{"1", "John"})

			rows, err := obs.Select(ctx, "select `id` from `User`", nil, 0)
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 1)
		})

		Convey("同时启用多种观测功能", func() {
			obs, err := NewObservableDatabaseWithOptions(&ObservableDatabaseOptions{
				Database: sqliteTypeOptions(),
				Logger: &ref.TypeOptions{
					Namespace: "github.com/hatlonely/ormx/log/logger",
					Type:      "SLog",
					Options:   &logger.SLogOptions{Level: "debug", Format: "text"},
				},
				Name:          "full_observable_database",
				EnableMetrics: true,
				EnableLogging: true,
				EnableTracing: true,
			})
			So(err, ShouldBeNil)
			defer obs.Close()

			So(obs.metrics, ShouldNotBeNil)
			So(obs.logger, ShouldNotBeNil)
			So(obs.enableTracing, ShouldBeTrue)

			ctx := context.Background()
			_, err = obs.Execute(ctx, "create table `User` (`id` varchar(50) primary key)", nil)
			So(err, ShouldBeNil)

			// 失败操作走错误观测分支
			_, err = obs.Select(ctx, "select * from `NoSuchTable`", nil, 0)
			So(err, ShouldNotBeNil)
		})
	})
}
