package def

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// 测试用的结构体
type defTestOptions struct {
	Name        string        `def:"default_name"`
	Age         int           `def:"25"`
	Height      float64       `def:"175.5"`
	IsActive    bool          `def:"true"`
	Tags        []string      `def:"tag1,tag2,tag3"`
	Ports       []int         `def:"80,443"`
	Timeout     time.Duration `def:"30s"`
	CreatedAt   time.Time     `def:"2023-01-01T00:00:00Z"`
	Description *string       `def:"default description"`

	// 嵌套结构体
	Database defDatabaseOptions

	// 指针类型的嵌套结构体
	Cache *defCacheOptions
}

type defDatabaseOptions struct {
	Host     string `def:"localhost"`
	Port     int    `def:"3306"`
	Username string `def:"root"`
	Password string
}

type defCacheOptions struct {
	Capacity int           `def:"1024"`
	Expire   time.Duration `def:"5m"`
}

func TestSetDefaults(t *testing.T) {
	Convey("测试设置默认值", t, func() {
		Convey("基本类型", func() {
			options := &defTestOptions{}

			err := SetDefaults(options)
			So(err, ShouldBeNil)

			So(options.Name, ShouldEqual, "default_name")
			So(options.Age, ShouldEqual, 25)
			So(options.Height, ShouldEqual, 175.5)
			So(options.IsActive, ShouldBeTrue)
			So(options.Tags, ShouldResemble, []string{"tag1", "tag2", "tag3"})
			So(options.Ports, ShouldResemble, []int{80, 443})
			So(options.Timeout, ShouldEqual, 30*time.Second)

			expectedTime, _ := time.Parse(time.RFC3339, "2023-01-01T00:00:00Z")
			So(options.CreatedAt, ShouldEqual, expectedTime)

			So(options.Description, ShouldNotBeNil)
			So(*options.Description, ShouldEqual, "default description")
		})

		Convey("嵌套结构体", func() {
			options := &defTestOptions{}

			err := SetDefaults(options)
			So(err, ShouldBeNil)

			So(options.Database.Host, ShouldEqual, "localhost")
			So(options.Database.Port, ShouldEqual, 3306)
			So(options.Database.Username, ShouldEqual, "root")
			So(options.Database.Password, ShouldEqual, "")

			// nil 指针会被分配并填充默认值
			So(options.Cache, ShouldNotBeNil)
			So(options.Cache.Capacity, ShouldEqual, 1024)
			So(options.Cache.Expire, ShouldEqual, 5*time.Minute)
		})

		Convey("已有值不会被覆盖", func() {
			options := &defTestOptions{
				Name: "custom",
				Age:  1,
				Database: defDatabaseOptions{
					Port: 5432,
				},
			}

			err := SetDefaults(options)
			So(err, ShouldBeNil)

			So(options.Name, ShouldEqual, "custom")
			So(options.Age, ShouldEqual, 1)
			So(options.Database.Port, ShouldEqual, 5432)

			// 同级的零值字段照常填充
			So(options.Database.Host, ShouldEqual, "localhost")
			So(options.Height, ShouldEqual, 175.5)
		})

		Convey("结构体切片逐元素填充", func() {
			type elemOptions struct {
				Name string `def:"elem"`
				Size int    `def:"8"`
			}
			type listOptions struct {
				Elems []elemOptions
			}

			options := &listOptions{Elems: []elemOptions{{}, {Name: "custom"}}}
			err := SetDefaults(options)
			So(err, ShouldBeNil)

			So(options.Elems[0].Name, ShouldEqual, "elem")
			So(options.Elems[0].Size, ShouldEqual, 8)
			So(options.Elems[1].Name, ShouldEqual, "custom")
			So(options.Elems[1].Size, ShouldEqual, 8)
		})

		Convey("时长支持字符串与纳秒数两种写法", func() {
			type durationOptions struct {
				AsString time.Duration `def:"1h30m"`
				AsNanos  time.Duration `def:"1500000000"`
			}

			options := &durationOptions{}
			err := SetDefaults(options)
			So(err, ShouldBeNil)

			So(options.AsString, ShouldEqual, 90*time.Minute)
			So(options.AsNanos, ShouldEqual, 1500*time.Millisecond)
		})
	})
}

func TestSetDefaultsInvalidInput(t *testing.T) {
	Convey("测试非法输入", t, func() {
		Convey("nil 或非指针", func() {
			So(SetDefaults(nil), ShouldNotBeNil)

			var options *defTestOptions
			So(SetDefaults(options), ShouldNotBeNil)

			So(SetDefaults(defTestOptions{}), ShouldNotBeNil)
		})

		Convey("无法解析的 def tag", func() {
			type badIntOptions struct {
				Count int `def:"not_a_number"`
			}
			So(SetDefaults(&badIntOptions{}), ShouldNotBeNil)

			type badDurationOptions struct {
				Timeout time.Duration `def:"forever"`
			}
			So(SetDefaults(&badDurationOptions{}), ShouldNotBeNil)
		})
	})
}
