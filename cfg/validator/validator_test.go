package validator

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestValidateStruct(t *testing.T) {
	Convey("Validator 结构体校验测试", t, func() {
		type connection struct {
			Driver  string `validate:"required,oneof=mysql sqlite3 postgres"`
			Host    string `validate:"required"`
			Port    int    `validate:"min=1,max=65535"`
			MaxSize int    `validate:"omitempty,min=1"`
		}

		type service struct {
			Name       string `validate:"required"`
			Endpoint   string `validate:"omitempty,url"`
			Connection connection
		}

		Convey("有效的结构体校验", func() {
			options := connection{
				Driver: "mysql",
				Host:   "localhost",
				Port:   3306,
			}
			So(ValidateStruct(&options), ShouldBeNil)
		})

		Convey("校验失败 - 必填字段为空", func() {
			options := connection{
				Driver: "mysql",
				Port:   3306,
			}
			So(ValidateStruct(&options), ShouldNotBeNil)
		})

		Convey("校验失败 - oneof 不匹配", func() {
			options := connection{
				Driver: "oracle",
				Host:   "localhost",
				Port:   3306,
			}
			So(ValidateStruct(&options), ShouldNotBeNil)
		})

		Convey("校验失败 - 数值越界", func() {
			options := connection{
				Driver: "mysql",
				Host:   "localhost",
				Port:   70000,
			}
			So(ValidateStruct(&options), ShouldNotBeNil)
		})

		Convey("omitempty 零值直接通过", func() {
			options := connection{
				Driver: "sqlite3",
				Host:   "localhost",
				Port:   1,
			}
			So(ValidateStruct(&options), ShouldBeNil)
		})

		Convey("嵌套结构体校验", func() {
			options := service{
				Name: "orm",
				Connection: connection{
					Driver: "mysql",
					Host:   "localhost",
					Port:   3306,
				},
			}
			So(ValidateStruct(&options), ShouldBeNil)

			options.Connection.Driver = ""
			So(ValidateStruct(&options), ShouldNotBeNil)
		})

		Convey("非结构体输入直接通过", func() {
			So(ValidateStruct(nil), ShouldBeNil)
			So(ValidateStruct(42), ShouldBeNil)
			So(ValidateStruct("text"), ShouldBeNil)
			So(ValidateStruct(time.Now()), ShouldBeNil)

			var nilOptions *connection
			So(ValidateStruct(nilOptions), ShouldBeNil)
		})
	})
}
