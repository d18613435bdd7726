// Package cfn supplies the concrete CloudFormation resource-type catalog:
// for every type name this analyzer understands, a capability.Descriptor
// describing how that type participates in dataflow, plus the list of
// resource types known to carry no dataflow of their own and therefore
// safe to ignore outright.
package cfn

import "github.com/infrasnipe/infrasnipe/capability"

// KnownTypes maps a CloudFormation resource Type string to the Descriptor
// describing its dataflow behavior. Types not present here and not listed
// in IgnoredTypes are unknown to the loader and reported as such.
var KnownTypes = map[string]*capability.Descriptor{
	"AWS::ApiGateway::Authorizer": {
		Accessible:        true,
		Security:          true,
		ProtectEntranceOf: []capability.Path{{"RestApiId"}},
	},
	"AWS::ApiGateway::Method": {
		Accessible:        true,
		ProtectEntranceBy: []capability.Path{{"AuthorizerId"}},
		Outgoing:          []capability.Path{{"Integration"}},
		ContainedIn:       []capability.Path{{"RestApiId"}},
	},
	"AWS::ApiGateway::RestApi": {
		Accessible: true,
		Container:  true,
	},

	"AWS::DynamoDB::GlobalTable": {
		Accessible: true,
		Container:  true,
	},
	"AWS::DynamoDB::Table": {
		Accessible: true,
		Container:  true,
	},

	"AWS::EC2::Host": {
		Accessible: true,
		Container:  true,
	},
	"AWS::EC2::Instance": {
		Accessible: true,
		ContainedIn: []capability.Path{
			{"HostId"}, {"HostResourceGroupArn"}, {"SubnetId"},
		},
		ProtectEntranceBy: []capability.Path{
			{"IamInstanceProfile"}, {"SecurityGroupIds"}, {"SecurityGroups"},
		},
		Outgoing: []capability.Path{{"Volumes"}},
	},
	"AWS::EC2::InternetGateway": {
		Accessible: true,
	},
	"AWS::EC2::NetworkAcl": {
		Accessible:        true,
		Security:          true,
		ProtectEntranceOf: []capability.Path{{"VpcId"}},
	},
	"AWS::EC2::NetworkAclEntry": {
		Accessible:        true,
		Security:          true,
		ProtectEntranceOf: []capability.Path{{"NetworkAclId"}},
	},
	"AWS::EC2::SecurityGroup": {
		Accessible:        true,
		Security:          true,
		ProtectEntranceOf: []capability.Path{{"SecurityGroupEgress"}},
		ProtectExitBy:     []capability.Path{{"SecurityGroupIngress"}},
	},
	"AWS::EC2::SecurityGroupEgress": {
		Accessible: true,
		Security:   true,
	},
	"AWS::EC2::SecurityGroupIngress": {
		Accessible: true,
		Security:   true,
	},
	"AWS::EC2::Subnet": {
		Accessible:  false,
		Container:   true,
		ContainedIn: []capability.Path{{"VpcId"}},
	},
	"AWS::EC2::SubnetNetworkAclAssociation": {
		Accessible:     false,
		ProtectBetween: [][2]capability.Path{{{"NetworkAclId"}, {"SubnetId"}}},
	},
	"AWS::EC2::Volume": {
		Accessible: false,
	},
	"AWS::EC2::VPC": {
		Accessible: false,
		Container:  true,
	},
	"AWS::EC2::VPCGatewayAttachment": {
		Accessible: false,
		CreateBetween: [][2]capability.Path{
			{{"InternetGatewayId"}, {"VpcId"}},
			{{"VpnGatewayId"}, {"VpcId"}},
		},
	},

	"AWS::ECS::MountGroup": {Accessible: true},
	"AWS::ECS::Cluster":    {Accessible: true},

	"AWS::EFS::MountGroup":  {Accessible: true},
	"AWS::EFS::MountTarget": {Accessible: true},
	"AWS::EFS::FileSystem":  {Accessible: true},

	"AWS::Glue::Classifier": {Accessible: true},
	"AWS::Glue::Connection": {Accessible: true},
	"AWS::Glue::Database": {
		Accessible: true,
		Container:  true,
	},
	"AWS::Glue::DataCatalogEncryptionSettings": {
		Accessible: true,
		Security:   true,
	},

	"AWS::IAM::InstanceProfile": {
		Accessible: true,
		Container:  true,
		Security:   true,
		Contains:   []capability.Path{{"Roles"}},
	},
	"AWS::IAM::Policy": {
		Accessible:        true,
		Security:          true,
		ProtectEntranceBy: []capability.Path{{"Roles"}},
	},
	"AWS::IAM::Role": {
		Accessible: false,
		Security:   true,
		ProtectEntranceBy: []capability.Path{
			{"ManagedPolicyArns"}, {"PermissionsBoundary"}, {"Policies"},
		},
	},

	"AWS::Lambda::Function": {
		Accessible:        false,
		ProtectEntranceBy: []capability.Path{{"Role"}},
	},
	"AWS::Lambda::Permission": {
		Accessible:        false,
		Security:          true,
		ProtectEntranceOf: []capability.Path{{"FunctionName"}},
		ProtectExitBy:     []capability.Path{{"SourceArn"}},
	},

	"AWS::RDS::DBInstance": {
		Accessible:        true,
		ProtectEntranceBy: []capability.Path{{"AccessControl"}},
	},
	"AWS::RDS::DBCluster": {
		Accessible:        true,
		ProtectEntranceBy: []capability.Path{{"AccessControl"}},
	},
	"AWS::RDS::DBSubnetGroup": {
		Accessible:        true,
		ProtectEntranceBy: []capability.Path{{"AccessControl"}},
	},

	"AWS::S3::Bucket": {
		Accessible:        true,
		ProtectEntranceBy: []capability.Path{{"AccessControl"}},
	},
	"AWS::S3::BucketPolicy": {
		Accessible:        true,
		Security:          true,
		ProtectEntranceOf: []capability.Path{{"Bucket"}},
	},
}

// IgnoredTypes lists resource types known to carry no dataflow of their
// own: the loader admits them into a template without error but produces
// no graph node for them.
var IgnoredTypes = map[string]struct{}{
	"Custom::MaxThroughputCalculator": {},

	"AWS::ApiGateway::Account":    {},
	"AWS::ApiGateway::Deployment": {},
	"AWS::ApiGateway::Resource":   {},
	"AWS::ApiGateway::Stage":      {},

	"AWS::AutoScaling::AutoScalingGroup":          {},
	"AWS::AutoScaling::LaunchConfiguration":       {},
	"AWS::AutoScaling::ScalingPolicy":             {},
	"AWS::AutoScaling::LifecycleHook":             {},
	"AWS::ApplicationAutoScaling::LifecycleHook":  {},

	"AWS::Backup::BackupSelection": {},
	"AWS::Backup::BackupPlan":      {},
	"AWS::Backup::BackupVault":     {},

	"AWS::CloudWatch::Alarm": {},

	"AWS::CloudFront::Distribution": {},

	"AWS::DirectoryService::SimpleAD": {},

	"AWS::EC2::EIP":                         {},
	"AWS::EC2::EIPAssociation":              {},
	"AWS::EC2::NatGateway":                  {},
	"AWS::EC2::NetworkInterface":            {},
	"AWS::EC2::PlacementGroup":              {},
	"AWS::EC2::Route":                       {},
	"AWS::EC2::RouteTable":                  {},
	"AWS::EC2::SubnetRouteTableAssociation": {},

	"AWS::ElasticLoadBalancingV2::Listener":     {},
	"AWS::ElasticLoadBalancingV2::TargetGroup":  {},
	"AWS::ElasticLoadBalancingV2::LoadBalancer": {},

	"AWS::Events::Rule": {},

	"AWS::Logs::LogGroup": {},

	"AWS::Route53::RecordSet": {},

	"AWS::SSM::Association":             {},
	"AWS::SSM::Document":                {},
	"AWS::SSM::MaintenanceWindow":       {},
	"AWS::SSM::MaintenanceWindowTarget": {},
	"AWS::SSM::MaintenanceWindowTask":   {},

	"AWS::SQS::Queue": {},

	"AWS::SNS::Subscription": {},
	"AWS::SNS::Topic":        {},
}
